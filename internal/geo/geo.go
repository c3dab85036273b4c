// Package geo resolves configured city names to coordinates for the soil
// warm scheduler. It is only consulted for locations that do not carry
// explicit coordinates.
package geo

import (
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/agrimitra/agridata/internal/config"
)

// Resolver turns a configured location into coordinates via the Google
// geocoding API.
type Resolver struct {
	configured bool
}

// NewResolver sets the geocoder credential. An empty key leaves the resolver
// disabled; city-only locations are then skipped with an error.
func NewResolver(apiKey string) *Resolver {
	if apiKey == "" {
		return &Resolver{}
	}
	geocoder.ApiKey = apiKey
	return &Resolver{configured: true}
}

// Resolve returns coordinates for a location, geocoding City/Country when no
// explicit coordinates are configured.
func (r *Resolver) Resolve(loc config.Location) (lat, lon float64, err error) {
	if loc.Lat != nil && loc.Lon != nil {
		return *loc.Lat, *loc.Lon, nil
	}

	if !r.configured {
		return 0, 0, fmt.Errorf("no coordinates for %q and geocoder key not configured", loc.City)
	}
	if loc.City == "" {
		return 0, 0, fmt.Errorf("location has neither coordinates nor a city name")
	}

	address := geocoder.Address{
		City:    loc.City,
		Country: loc.Country,
	}

	result, err := geocoder.Geocoding(address)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding %q: %w", loc.City, err)
	}

	return result.Latitude, result.Longitude, nil
}
