package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/agrimitra/agridata/internal/fetch"
	"github.com/agrimitra/agridata/internal/market"
)

// DefaultDataGovURL points at the daily mandi-price resource on the
// government open-data portal.
const DefaultDataGovURL = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"

// arrivalDateLayout is the dd/mm/yyyy format the portal uses.
const arrivalDateLayout = "02/01/2006"

// DataGovClient queries the government market-price API with a single
// credential per call; credential rotation lives in the service.
type DataGovClient struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewDataGovClient(client *http.Client, baseURL string) *DataGovClient {
	if baseURL == "" {
		baseURL = DefaultDataGovURL
	}
	return &DataGovClient{
		name:    "agmarknet",
		baseURL: baseURL,
		client:  client,
		circuit: fetch.NewBreaker("agmarknet"),
	}
}

func (c *DataGovClient) Name() string {
	return c.name
}

// FetchRecords queries the portal with one API key and returns normalized,
// per-ton price points within the query's date range. Malformed records in an
// otherwise good batch are logged and skipped; a non-JSON or HTML body fails
// the whole call.
func (c *DataGovClient) FetchRecords(ctx context.Context, apiKey string, q market.Query) ([]market.PricePoint, error) {
	values := url.Values{}
	values.Set("api-key", apiKey)
	values.Set("format", "json")
	values.Set("offset", "0")
	values.Set("limit", "500")
	addFilter(values, "commodity", q.Commodity)
	addFilter(values, "state", q.State)
	addFilter(values, "district", q.District)
	addFilter(values, "market", q.Market)
	if !q.From.IsZero() {
		values.Set("filters[arrival_date]", q.From.Format(arrivalDateLayout))
	}

	u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := fetch.DoRequest(c.client, c.circuit, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// The portal answers some rejected keys with an HTML error page and a
	// 200 status.
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "<") {
		return nil, &fetch.ParseError{Source: c.name, Err: fmt.Errorf("html error page")}
	}

	var payload struct {
		Records []struct {
			ArrivalDate string `json:"arrival_date"`
			ModalPrice  string `json:"modal_price"`
			MinPrice    string `json:"min_price"`
			MaxPrice    string `json:"max_price"`
			Commodity   string `json:"commodity"`
			Variety     string `json:"variety"`
			State       string `json:"state"`
			District    string `json:"district"`
			Market      string `json:"market"`
		} `json:"records"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &fetch.ParseError{Source: c.name, Err: err}
	}

	points := make([]market.PricePoint, 0, len(payload.Records))
	for _, rec := range payload.Records {
		date, err := time.Parse(arrivalDateLayout, rec.ArrivalDate)
		if err != nil {
			log.Printf("INFO: skipping record with bad arrival_date %q: %v", rec.ArrivalDate, err)
			continue
		}
		modal, err := strconv.ParseFloat(rec.ModalPrice, 64)
		if err != nil {
			log.Printf("INFO: skipping record with bad modal_price %q: %v", rec.ModalPrice, err)
			continue
		}
		if !q.InRange(date) {
			continue
		}

		minP, err := strconv.ParseFloat(rec.MinPrice, 64)
		if err != nil {
			log.Printf("INFO: skipping record with bad min_price %q: %v", rec.MinPrice, err)
			continue
		}
		maxP, err := strconv.ParseFloat(rec.MaxPrice, 64)
		if err != nil {
			log.Printf("INFO: skipping record with bad max_price %q: %v", rec.MaxPrice, err)
			continue
		}

		points = append(points, market.PricePoint{
			Date:      date.Format("2006-01-02"),
			Commodity: rec.Commodity,
			State:     rec.State,
			District:  rec.District,
			Market:    rec.Market,
			Price:     modal * market.QuintalToTon,
			MinPrice:  minP * market.QuintalToTon,
			MaxPrice:  maxP * market.QuintalToTon,
		})
	}

	return points, nil
}

func addFilter(values url.Values, field, value string) {
	if strings.TrimSpace(value) != "" {
		values.Set(fmt.Sprintf("filters[%s]", field), value)
	}
}
