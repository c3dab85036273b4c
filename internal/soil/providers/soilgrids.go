package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/agrimitra/agridata/internal/fetch"
	"github.com/agrimitra/agridata/internal/soil"
)

// DefaultSoilGridsURL is the hosted primary soil endpoint.
const DefaultSoilGridsURL = "https://rest.isric.org/soilgrids/v2.0"

// SoilGridsProvider is the primary soil source. One GET carries every
// canonical property and depth band as repeated query parameters.
type SoilGridsProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewSoilGridsProvider(client *http.Client, baseURL string) *SoilGridsProvider {
	if baseURL == "" {
		baseURL = DefaultSoilGridsURL
	}
	return &SoilGridsProvider{
		name:    "soilgrids",
		baseURL: baseURL,
		client:  client,
		circuit: fetch.NewBreaker("soilgrids"),
	}
}

func (p *SoilGridsProvider) Name() string {
	return p.name
}

func (p *SoilGridsProvider) Fetch(ctx context.Context, lat, lon float64) (soil.Profile, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("value", "mean")
	for _, prop := range soil.Properties {
		values.Add("property", prop)
	}
	for _, label := range soil.DepthLabels {
		values.Add("depth", label)
	}

	u := fmt.Sprintf("%s/properties/query?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return soil.Profile{}, err
	}

	resp, err := fetch.DoRequest(p.client, p.circuit, req)
	if err != nil {
		return soil.Profile{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			Layers []struct {
				Name   string `json:"name"`
				Depths []struct {
					Label  string `json:"label"`
					Values struct {
						Mean float64 `json:"mean"`
					} `json:"values"`
				} `json:"depths"`
			} `json:"layers"`
		} `json:"properties"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return soil.Profile{}, &fetch.ParseError{Source: p.name, Err: err}
	}

	layerValues := make(map[string]map[string]float64)
	for _, layer := range payload.Properties.Layers {
		byDepth := make(map[string]float64)
		for _, d := range layer.Depths {
			byDepth[d.Label] = d.Values.Mean
		}
		layerValues[layer.Name] = byDepth
	}

	return soil.Merge(layerValues), nil
}
