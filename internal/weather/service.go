package weather

import (
	"context"
	"log"
	"time"

	"github.com/agrimitra/agridata/internal/fetch"
)

// Provider abstracts the weather data source.
type Provider interface {
	Name() string
	FetchForecast(ctx context.Context, lat, lon float64) (Current, []ForecastDay, error)
	FetchHistorical(ctx context.Context, lat, lon float64, startDate, endDate string) ([]HistoricalDay, error)
}

// Service produces canonical weather snapshots. Provider failures never
// surface to the caller: a failed forecast is silently replaced by the
// synthetic fallback, and only the source tag discloses what happened.
type Service struct {
	provider Provider

	// now is swapped in tests to pin the synthetic base date.
	now func() time.Time
}

// NewService creates a weather Service.
func NewService(provider Provider) *Service {
	return &Service{
		provider: provider,
		now:      time.Now,
	}
}

type forecastResult struct {
	current  Current
	forecast []ForecastDay
}

// GetWeatherData fetches current conditions and the 7-day forecast, plus the
// historical daily series when both dates are supplied. The forecast call is
// a single attempt; any failure replaces the whole snapshot with synthetic
// data. A historical failure alone never invalidates a good forecast.
func (s *Service) GetWeatherData(ctx context.Context, lat, lon float64, startDate, endDate string) Snapshot {
	sources := []fetch.Source[forecastResult]{{
		Name:   s.provider.Name(),
		Policy: fetch.Policy{MaxAttempts: 1},
		Fetch: func(ctx context.Context) (forecastResult, error) {
			current, forecast, err := s.provider.FetchForecast(ctx, lat, lon)
			if err != nil {
				return forecastResult{}, err
			}
			return forecastResult{current: current, forecast: forecast}, nil
		},
	}}

	res, err := fetch.First(ctx, sources)
	if err != nil {
		log.Printf("INFO: weather forecast unavailable, serving synthetic data: %v", err)
		return SyntheticSnapshot(lat, lon, s.now())
	}

	snap := Snapshot{
		Current:  res.Data.current,
		Forecast: res.Data.forecast,
		Source:   res.Source,
	}

	if startDate != "" && endDate != "" {
		hist, err := s.provider.FetchHistorical(ctx, lat, lon, startDate, endDate)
		if err != nil {
			// Historical data is best-effort; the forecast stands on its own.
			log.Printf("INFO: historical weather fetch failed: %v", err)
		} else {
			snap.Historical = hist
		}
	}

	return snap
}
