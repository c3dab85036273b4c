package market

import (
	_ "embed"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// The bundled historical dataset answers queries once every live credential
// is exhausted. Prices are stored in the source's native per-quintal unit and
// converted on the way out like every other path.
//
//go:embed data/static_prices.json
var staticPricesJSON []byte

type staticRecord struct {
	Commodity string  `json:"commodity"`
	State     string  `json:"state"`
	District  string  `json:"district"`
	Market    string  `json:"market"`
	Date      string  `json:"date"`
	Price     float64 `json:"price"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
}

var (
	staticOnce    sync.Once
	staticRecords []staticRecord
)

func loadStaticRecords() []staticRecord {
	staticOnce.Do(func() {
		if err := json.Unmarshal(staticPricesJSON, &staticRecords); err != nil {
			// The dataset ships inside the binary; failing to parse it is a
			// build defect, not a runtime condition.
			log.Printf("ERROR: bundled price dataset is unreadable: %v", err)
		}
	})
	return staticRecords
}

// StaticPrices filters the bundled dataset by the query and date range and
// returns normalized per-ton points.
func StaticPrices(q Query) []PricePoint {
	var points []PricePoint
	for _, rec := range loadStaticRecords() {
		if !q.Matches(rec.Commodity, rec.State, rec.District, rec.Market) {
			continue
		}
		date, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			log.Printf("INFO: skipping static record with bad date %q", rec.Date)
			continue
		}
		if !q.InRange(date) {
			continue
		}

		points = append(points, PricePoint{
			Date:      rec.Date,
			Commodity: rec.Commodity,
			State:     rec.State,
			District:  rec.District,
			Market:    rec.Market,
			Price:     rec.Price * QuintalToTon,
			MinPrice:  rec.MinPrice * QuintalToTon,
			MaxPrice:  rec.MaxPrice * QuintalToTon,
		})
	}
	return points
}
