package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Location is a farm location whose soil data the warm scheduler prefetches.
// Either coordinates or City/Country must be set; the latter needs the
// geocoder key to resolve.
type Location struct {
	City    string
	Country string
	Lat     *float64
	Lon     *float64
}

// AppConfig carries everything the process reads from the environment.
type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	// Provider endpoints, overridable for tests and self-hosted mirrors.
	SoilGridsURL        string
	OpenLandMapURL      string
	OpenMeteoURL        string
	OpenMeteoArchiveURL string
	DataGovURL          string

	// Ordered credential list for the government price API. May be empty.
	DataGovAPIKeys []string

	MarketCacheTTL time.Duration
	SoilCacheTTL   time.Duration

	// Soil warm scheduler.
	WarmInterval   time.Duration
	WarmLocations  []Location
	GeocoderAPIKey string
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.SoilGridsURL = os.Getenv("SOILGRIDS_BASE_URL")
	cfg.OpenLandMapURL = os.Getenv("OPENLANDMAP_BASE_URL")
	cfg.OpenMeteoURL = os.Getenv("OPENMETEO_BASE_URL")
	cfg.OpenMeteoArchiveURL = os.Getenv("OPENMETEO_ARCHIVE_BASE_URL")
	cfg.DataGovURL = os.Getenv("DATA_GOV_BASE_URL")

	cfg.DataGovAPIKeys = splitList(os.Getenv("DATA_GOV_API_KEYS"))

	marketTTL, err := time.ParseDuration(getenvDefault("MARKET_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid MARKET_CACHE_TTL: %w", err)
	}
	cfg.MarketCacheTTL = marketTTL

	soilTTL, err := time.ParseDuration(getenvDefault("SOIL_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SOIL_CACHE_TTL: %w", err)
	}
	cfg.SoilCacheTTL = soilTTL

	warmInterval, err := time.ParseDuration(getenvDefault("SOIL_WARM_INTERVAL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SOIL_WARM_INTERVAL: %w", err)
	}
	cfg.WarmInterval = warmInterval

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	locs, err := loadWarmLocations()
	if err != nil {
		return nil, err
	}
	cfg.WarmLocations = locs

	return cfg, nil
}

// loadWarmLocations parses SOIL_WARM_COORDS ("lat,lon;lat,lon") and
// SOIL_WARM_CITIES ("City,Country;City,Country").
func loadWarmLocations() ([]Location, error) {
	var locs []Location

	for _, pair := range splitPairs(os.Getenv("SOIL_WARM_COORDS")) {
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(pair[0]), 64)
		lon, err2 := strconv.ParseFloat(strings.TrimSpace(pair[1]), 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid SOIL_WARM_COORDS entry %q", strings.Join(pair, ","))
		}
		locs = append(locs, Location{Lat: &lat, Lon: &lon})
	}

	for _, pair := range splitPairs(os.Getenv("SOIL_WARM_CITIES")) {
		locs = append(locs, Location{
			City:    strings.TrimSpace(pair[0]),
			Country: strings.TrimSpace(pair[1]),
		})
	}

	return locs, nil
}

// splitPairs splits "a,b;c,d" into [[a b] [c d]], skipping malformed entries.
func splitPairs(s string) [][]string {
	var pairs [][]string
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ",", 2)
		if len(parts) != 2 {
			log.Printf("INFO: skipping malformed location entry %q", entry)
			continue
		}
		pairs = append(pairs, parts)
	}
	return pairs
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
