package market

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/agrimitra/agridata/internal/cache"
	"github.com/agrimitra/agridata/internal/fetch"
)

// errNoRecords marks a credential that answered cleanly but had no coverage
// for the query; rotation continues to the next credential.
var errNoRecords = errors.New("no matching records")

// Client abstracts the government price API for a single credential.
type Client interface {
	Name() string
	FetchRecords(ctx context.Context, apiKey string, q Query) ([]PricePoint, error)
}

// Service runs the market-price fallback chain: ordered credential rotation
// against the live API, then the bundled static dataset, then deterministic
// synthetic records. It never fails a caller; some path always answers.
type Service struct {
	client   Client
	apiKeys  []string
	cache    *cache.TTLCache
	proxyTTL time.Duration

	// now is swapped in tests to pin synthetic date ranges.
	now func() time.Time
}

// NewService creates a market Service. apiKeys is the ordered credential
// list and may be empty, in which case the live API is skipped entirely.
func NewService(client Client, apiKeys []string, c *cache.TTLCache, proxyTTL time.Duration) *Service {
	return &Service{
		client:   client,
		apiKeys:  apiKeys,
		cache:    c,
		proxyTTL: proxyTTL,
		now:      time.Now,
	}
}

// Result is a price series tagged with the path that produced it.
type Result struct {
	Data   []PricePoint `json:"data"`
	Source string       `json:"source"`
}

// GetMarketPrices answers a filtered price query. Each credential gets one
// attempt (rotation is the retry strategy); a credential with zero matching
// records is passed over, since a later one may cover the query. Exhaustion
// falls through to the static dataset, and a static miss on a constrained
// query generates synthetic records.
func (s *Service) GetMarketPrices(ctx context.Context, q Query) Result {
	if len(s.apiKeys) > 0 {
		sources := make([]fetch.Source[[]PricePoint], 0, len(s.apiKeys))
		for i, key := range s.apiKeys {
			key := key
			sources = append(sources, fetch.Source[[]PricePoint]{
				Name:   fmt.Sprintf("%s credential %d", s.client.Name(), i+1),
				Policy: fetch.Policy{MaxAttempts: 1},
				Fetch: func(ctx context.Context) ([]PricePoint, error) {
					points, err := s.client.FetchRecords(ctx, key, q)
					if err != nil {
						return nil, err
					}
					if len(points) == 0 {
						return nil, errNoRecords
					}
					return points, nil
				},
			})
		}

		res, err := fetch.First(ctx, sources)
		if err == nil {
			return Result{Data: res.Data, Source: "agmarknet"}
		}
		log.Printf("INFO: all market credentials exhausted, using static dataset: %v", err)
	}

	if static := StaticPrices(q); len(static) > 0 {
		return Result{Data: static, Source: "static"}
	}

	if q.HasFilter() {
		return Result{Data: SyntheticPrices(q, s.now()), Source: "synthetic"}
	}

	return Result{Data: []PricePoint{}, Source: "static"}
}

// ProxyResult is the simpler proxy contract consumed by the page layer.
type ProxyResult struct {
	Data   []PricePoint `json:"data"`
	Source string       `json:"source"`
	Cached bool         `json:"cached"`
}

// ProxyPrices is the independent proxy path: a short TTL cache keyed by the
// query fingerprint in front of a single first-credential attempt, falling
// back to the synthetic generator when no credential exists or the call
// fails. Deliberately simpler than the full rotation chain.
func (s *Service) ProxyPrices(ctx context.Context, q Query) ProxyResult {
	key := "agmarket:" + q.Fingerprint()

	if v, ok := s.cache.Get(key); ok {
		if points, ok := v.([]PricePoint); ok {
			return ProxyResult{Data: points, Source: "cache", Cached: true}
		}
	}

	if len(s.apiKeys) > 0 {
		points, err := s.client.FetchRecords(ctx, s.apiKeys[0], q)
		if err == nil && len(points) > 0 {
			s.cache.Set(key, points, s.proxyTTL)
			return ProxyResult{Data: points, Source: "agmarknet", Cached: false}
		}
		if err != nil {
			log.Printf("INFO: agmarket proxy fetch failed, serving fallback: %v", err)
		}
	}

	points := SyntheticPrices(q, s.now())
	s.cache.Set(key, points, s.proxyTTL)
	return ProxyResult{Data: points, Source: "fallback", Cached: false}
}
