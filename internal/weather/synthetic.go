package weather

import (
	"math"
	"time"

	"github.com/agrimitra/agridata/internal/synth"
)

// Fixed bases the synthetic perturbations move around. Values sit in the
// plausible range for the tropical growing regions the application serves.
const (
	synthBaseMaxTemp = 32.0
	synthBaseMinTemp = 22.0
	synthBaseTemp    = 27.0
)

// SyntheticSnapshot builds a deterministic stand-in snapshot for a location.
// The same coordinates and base date always produce the identical snapshot,
// so a flaky provider looks like a stable one to the caller.
func SyntheticSnapshot(lat, lon float64, base time.Time) Snapshot {
	seed := synth.SeedFromCoords(lat, lon)
	seq := synth.New(seed)

	current := Current{
		Temperature: math.Round((synthBaseTemp+6*seq.Next())*10) / 10,
		Humidity:    math.Round(50 + 40*seq.Next()),
		WindSpeed:   math.Round((4+10*seq.Next())*10) / 10,
	}

	day := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, time.UTC)

	forecast := make([]ForecastDay, 0, ForecastDays)
	for i := 0; i < ForecastDays; i++ {
		maxT := synthBaseMaxTemp + 4*math.Sin(float64(seed%100)+float64(i))
		minT := synthBaseMinTemp + 3*math.Cos(float64(seed%100)+float64(i))

		// Every third day gets a thunderstorm with heavier rain.
		desc := "Partly cloudy"
		precip := 4 * seq.Next()
		if i%3 == 2 {
			desc = "Thunderstorms"
			precip = 12 + 15*seq.Next()
		}

		forecast = append(forecast, ForecastDay{
			Date:          day.AddDate(0, 0, i).Format("2006-01-02"),
			MaxTemp:       math.Round(maxT*10) / 10,
			MinTemp:       math.Round(minT*10) / 10,
			Description:   desc,
			Precipitation: math.Round(precip*10) / 10,
		})
	}

	return Snapshot{
		Current:  current,
		Forecast: forecast,
		Source:   "synthetic",
	}
}
