package soil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agrimitra/agridata/internal/fetch"
)

// ErrAllSourcesUnavailable is returned when both soil providers failed. Soil
// data is never synthesized; the consuming layer must degrade explicitly.
var ErrAllSourcesUnavailable = errors.New("soil data unavailable from all sources")

// Provider abstracts a soil data source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, lat, lon float64) (Profile, error)
}

// Service runs the soil fallback chain: the primary provider with a deeper
// retry budget, then the backup with a shallower one.
type Service struct {
	primary Provider
	backup  Provider

	primaryPolicy fetch.Policy
	backupPolicy  fetch.Policy
}

// NewService creates a soil Service with the standard retry policies.
func NewService(primary, backup Provider) *Service {
	return &Service{
		primary:       primary,
		backup:        backup,
		primaryPolicy: fetch.Policy{MaxAttempts: 3, BaseDelay: 1000 * time.Millisecond, Factor: 2},
		backupPolicy:  fetch.Policy{MaxAttempts: 2, BaseDelay: 1000 * time.Millisecond, Factor: 2},
	}
}

// Result is a canonical profile tagged with the chain position that produced
// it ("primary" or "backup"), surfaced to callers for provenance disclosure.
type Result struct {
	Data   Profile `json:"data"`
	Source string  `json:"source"`
}

// GetSoilData fetches the canonical profile for a location. The backup is
// consulted only after the primary's retries are exhausted; if both fail the
// error wraps ErrAllSourcesUnavailable.
func (s *Service) GetSoilData(ctx context.Context, lat, lon float64) (Result, error) {
	sources := []fetch.Source[Profile]{
		{
			Name:   "primary",
			Policy: s.primaryPolicy,
			Fetch: func(ctx context.Context) (Profile, error) {
				return s.primary.Fetch(ctx, lat, lon)
			},
		},
		{
			Name:   "backup",
			Policy: s.backupPolicy,
			Fetch: func(ctx context.Context) (Profile, error) {
				return s.backup.Fetch(ctx, lat, lon)
			},
		},
	}

	res, err := fetch.First(ctx, sources)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrAllSourcesUnavailable, err)
	}

	return Result{Data: res.Data, Source: res.Source}, nil
}

// CacheKey is the request fingerprint used by the soil route cache and the
// warm scheduler.
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("soil:%.4f:%.4f", lat, lon)
}
