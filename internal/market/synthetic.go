package market

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/agrimitra/agridata/internal/synth"
)

// priceBand is the plausible per-quintal range for a commodity.
type priceBand struct {
	Low, High float64
}

// priceBands is ordered: lookup walks it front to back, so a commodity name
// matching more than one entry ("Potato Onion") always resolves to the same
// band. Keep new entries at the end.
var priceBands = []struct {
	name string
	band priceBand
}{
	{"wheat", priceBand{1800, 2600}},
	{"rice", priceBand{2600, 3800}},
	{"paddy", priceBand{1900, 2400}},
	{"onion", priceBand{800, 2600}},
	{"potato", priceBand{700, 1800}},
	{"tomato", priceBand{900, 2400}},
	{"maize", priceBand{1600, 2300}},
	{"cotton", priceBand{5800, 7600}},
	{"soybean", priceBand{3800, 4800}},
	{"groundnut", priceBand{4800, 6200}},
	{"mustard", priceBand{4800, 5900}},
	{"turmeric", priceBand{6200, 8400}},
	{"banana", priceBand{1100, 1800}},
	{"sugarcane", priceBand{280, 400}},
}

var defaultBand = priceBand{1000, 3000}

// SyntheticPrices generates a deterministic stand-in price series for a
// query nothing else could answer: a per-commodity base price perturbed
// ±15% per record, 10-19 records spread across the requested date range,
// ascending by date, per-ton like every other path. The sequence is seeded
// by the query fingerprint, so repeated identical queries reproduce the
// identical series.
func SyntheticPrices(q Query, now time.Time) []PricePoint {
	seq := synth.New(synth.SeedFromString(q.Fingerprint()))

	from, to := q.From, q.To
	if to.IsZero() {
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	rangeDays := int(to.Sub(from).Hours() / 24)
	if rangeDays < 1 {
		rangeDays = 1
	}

	band := bandFor(q.Commodity)
	base := band.Low + seq.Next()*(band.High-band.Low)

	count := 10 + int(seq.Next()*10) // 10-19 records

	points := make([]PricePoint, 0, count)
	for i := 0; i < count; i++ {
		date := from.AddDate(0, 0, int(seq.Next()*float64(rangeDays)))

		modal := base * (0.85 + 0.30*seq.Next())
		points = append(points, PricePoint{
			Date:      date.Format("2006-01-02"),
			Commodity: q.Commodity,
			State:     q.State,
			District:  q.District,
			Market:    q.Market,
			Price:     round2(modal * QuintalToTon),
			MinPrice:  round2(modal * 0.9 * QuintalToTon),
			MaxPrice:  round2(modal * 1.1 * QuintalToTon),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

func bandFor(commodity string) priceBand {
	key := strings.ToLower(strings.TrimSpace(commodity))
	for _, pb := range priceBands {
		if strings.Contains(key, pb.name) {
			return pb.band
		}
	}
	return defaultBand
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
