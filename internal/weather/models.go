package weather

// ForecastDays is the fixed forecast horizon. A snapshot's forecast always
// has exactly this many entries, ordered by date, on every path.
const ForecastDays = 7

// Current holds the present conditions at a location.
type Current struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
}

// ForecastDay is one normalized daily forecast entry.
type ForecastDay struct {
	Date          string  `json:"date"`
	MaxTemp       float64 `json:"maxTemp"`
	MinTemp       float64 `json:"minTemp"`
	Description   string  `json:"description"`
	Precipitation float64 `json:"precipitation"`
}

// HistoricalDay is one daily entry of the optional historical series.
type HistoricalDay struct {
	Date          string  `json:"date"`
	AvgTemp       float64 `json:"avgTemp"`
	Precipitation float64 `json:"precipitation"`
}

// Snapshot is the canonical weather view returned to callers regardless of
// whether a real provider or the synthetic fallback produced it.
type Snapshot struct {
	Current    Current         `json:"current"`
	Forecast   []ForecastDay   `json:"forecast"`
	Historical []HistoricalDay `json:"historical,omitempty"`
	Source     string          `json:"source"`
}
