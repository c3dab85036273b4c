package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/agrimitra/agridata/internal/fetch"
	"github.com/agrimitra/agridata/internal/weather"
)

// Default Open-Meteo endpoints. The forecast and archive APIs live on
// different hosts, so both are configurable independently.
const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"
)

// OpenMeteoProvider fetches current conditions, the 7-day forecast and the
// optional historical daily series from Open-Meteo. No API key is required.
type OpenMeteoProvider struct {
	name        string
	forecastURL string
	archiveURL  string
	client      *http.Client
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, forecastURL, archiveURL string) *OpenMeteoProvider {
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	if archiveURL == "" {
		archiveURL = DefaultArchiveURL
	}
	return &OpenMeteoProvider{
		name:        "open-meteo",
		forecastURL: forecastURL,
		archiveURL:  archiveURL,
		client:      client,
		circuit:     fetch.NewBreaker("open-meteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchForecast returns current conditions plus exactly ForecastDays daily
// entries. A shorter daily series is treated as a malformed response.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, lat, lon float64) (weather.Current, []weather.ForecastDay, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("current", "temperature_2m,relative_humidity_2m,wind_speed_10m")
	values.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum")
	values.Set("forecast_days", fmt.Sprintf("%d", weather.ForecastDays))

	u := fmt.Sprintf("%s?%s", p.forecastURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.Current{}, nil, err
	}

	resp, err := fetch.DoRequest(p.client, p.circuit, req)
	if err != nil {
		return weather.Current{}, nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			WindSpeed   float64 `json:"wind_speed_10m"`
		} `json:"current"`
		Daily struct {
			Time          []string  `json:"time"`
			WeatherCode   []int     `json:"weather_code"`
			TempMax       []float64 `json:"temperature_2m_max"`
			TempMin       []float64 `json:"temperature_2m_min"`
			Precipitation []float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Current{}, nil, &fetch.ParseError{Source: p.name, Err: err}
	}

	d := payload.Daily
	if len(d.Time) < weather.ForecastDays ||
		len(d.WeatherCode) < weather.ForecastDays ||
		len(d.TempMax) < weather.ForecastDays ||
		len(d.TempMin) < weather.ForecastDays ||
		len(d.Precipitation) < weather.ForecastDays {
		return weather.Current{}, nil, &fetch.ParseError{
			Source: p.name,
			Err:    fmt.Errorf("daily series shorter than %d days", weather.ForecastDays),
		}
	}

	forecast := make([]weather.ForecastDay, 0, weather.ForecastDays)
	for i := 0; i < weather.ForecastDays; i++ {
		forecast = append(forecast, weather.ForecastDay{
			Date:          d.Time[i],
			MaxTemp:       d.TempMax[i],
			MinTemp:       d.TempMin[i],
			Description:   weather.DescribeWeatherCode(d.WeatherCode[i]),
			Precipitation: d.Precipitation[i],
		})
	}

	current := weather.Current{
		Temperature: payload.Current.Temperature,
		Humidity:    payload.Current.Humidity,
		WindSpeed:   payload.Current.WindSpeed,
	}

	return current, forecast, nil
}

// FetchHistorical returns the daily mean temperature and precipitation series
// between two ISO dates (inclusive).
func (p *OpenMeteoProvider) FetchHistorical(ctx context.Context, lat, lon float64, startDate, endDate string) ([]weather.HistoricalDay, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("start_date", startDate)
	values.Set("end_date", endDate)
	values.Set("daily", "temperature_2m_mean,precipitation_sum")

	u := fmt.Sprintf("%s?%s", p.archiveURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := fetch.DoRequest(p.client, p.circuit, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time          []string  `json:"time"`
			TempMean      []float64 `json:"temperature_2m_mean"`
			Precipitation []float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &fetch.ParseError{Source: p.name, Err: err}
	}

	d := payload.Daily
	series := make([]weather.HistoricalDay, 0, len(d.Time))
	for i, date := range d.Time {
		if i >= len(d.TempMean) || i >= len(d.Precipitation) {
			break
		}
		series = append(series, weather.HistoricalDay{
			Date:          date,
			AvgTemp:       d.TempMean[i],
			Precipitation: d.Precipitation[i],
		})
	}

	return series, nil
}
