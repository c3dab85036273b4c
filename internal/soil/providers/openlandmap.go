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

// DefaultOpenLandMapURL is the hosted backup soil endpoint.
const DefaultOpenLandMapURL = "https://landgisapi.opengeohub.org"

// fieldSpec maps one backup response field onto the canonical vocabulary.
// The backup reports pH in plain units and texture fractions in 0-1, so each
// field carries the scale that converts it to the primary's units.
type fieldSpec struct {
	prop  string
	depth string
	field string
	scale float64
}

var openLandMapFields = []fieldSpec{
	{soil.PropPH, "0-5cm", "sol_ph.h2o_0..5cm_mean", 10},
	{soil.PropPH, "5-15cm", "sol_ph.h2o_5..15cm_mean", 10},
	{soil.PropClay, "0-5cm", "sol_clay.wfraction_0..5cm_mean", 1000},
	{soil.PropClay, "5-15cm", "sol_clay.wfraction_5..15cm_mean", 1000},
	{soil.PropSand, "0-5cm", "sol_sand.wfraction_0..5cm_mean", 1000},
	{soil.PropSand, "5-15cm", "sol_sand.wfraction_5..15cm_mean", 1000},
	{soil.PropSilt, "0-5cm", "sol_silt.wfraction_0..5cm_mean", 1000},
	{soil.PropSilt, "5-15cm", "sol_silt.wfraction_5..15cm_mean", 1000},
	{soil.PropSOC, "0-5cm", "sol_organic.carbon_0..5cm_mean", 10},
	{soil.PropSOC, "5-15cm", "sol_organic.carbon_5..15cm_mean", 10},
	{soil.PropNitrogen, "0-5cm", "sol_nitrogen.tot_0..5cm_mean", 100},
	{soil.PropNitrogen, "5-15cm", "sol_nitrogen.tot_5..15cm_mean", 100},
	{soil.PropCEC, "0-5cm", "sol_cec.ph7_0..5cm_mean", 10},
	{soil.PropCEC, "5-15cm", "sol_cec.ph7_5..15cm_mean", 10},
	{soil.PropBulkDens, "0-5cm", "sol_bulkdens.fineearth_0..5cm_mean", 100},
	{soil.PropBulkDens, "5-15cm", "sol_bulkdens.fineearth_5..15cm_mean", 100},
}

// OpenLandMapProvider is the backup soil source. Its flat response uses its
// own field names and units; everything it omits falls back to the canonical
// defaults.
type OpenLandMapProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenLandMapProvider(client *http.Client, baseURL string) *OpenLandMapProvider {
	if baseURL == "" {
		baseURL = DefaultOpenLandMapURL
	}
	return &OpenLandMapProvider{
		name:    "openlandmap",
		baseURL: baseURL,
		client:  client,
		circuit: fetch.NewBreaker("openlandmap"),
	}
}

func (p *OpenLandMapProvider) Name() string {
	return p.name
}

func (p *OpenLandMapProvider) Fetch(ctx context.Context, lat, lon float64) (soil.Profile, error) {
	values := url.Values{}
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("coll", "sol")

	u := fmt.Sprintf("%s/query/point?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return soil.Profile{}, err
	}

	resp, err := fetch.DoRequest(p.client, p.circuit, req)
	if err != nil {
		return soil.Profile{}, err
	}
	defer resp.Body.Close()

	// The flat payload mixes numeric soil fields with metadata strings, so
	// decode loosely and pick out only the numbers we know.
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return soil.Profile{}, &fetch.ParseError{Source: p.name, Err: err}
	}

	converted := make(map[string]map[string]float64)
	for _, spec := range openLandMapFields {
		raw, ok := payload[spec.field].(float64)
		if !ok {
			continue // canonical default fills the gap
		}
		if converted[spec.prop] == nil {
			converted[spec.prop] = make(map[string]float64)
		}
		converted[spec.prop][spec.depth] = raw * spec.scale
	}

	return soil.Merge(converted), nil
}
