package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/agrimitra/agridata/internal/cache"
	"github.com/agrimitra/agridata/internal/config"
	"github.com/agrimitra/agridata/internal/geo"
	"github.com/agrimitra/agridata/internal/soil"
)

// Scheduler periodically warms the soil cache for configured farm locations.
// Soil properties barely change, the providers are rate-limited and slow, so
// prefetching keeps the cached route fast without burning quota per request.
type Scheduler struct {
	scheduler *gocron.Scheduler
	soils     *soil.Service
	cache     *cache.TTLCache
	resolver  *geo.Resolver
	locations []config.Location
	interval  time.Duration
	cacheTTL  time.Duration
}

// New creates a Scheduler.
func New(locations []config.Location, interval, cacheTTL time.Duration, soils *soil.Service, c *cache.TTLCache, resolver *geo.Resolver) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		soils:     soils,
		cache:     c,
		resolver:  resolver,
		locations: locations,
		interval:  interval,
		cacheTTL:  cacheTTL,
	}
}

// Start schedules the periodic warm job and runs it once immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("scheduler: no warm locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 360
	}

	_, err := s.scheduler.Every(minutes).Minutes().StartImmediately().Do(s.warm)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) warm() {
	runID := uuid.NewString()
	log.Printf("scheduler: running soil warm job %s for %d locations", runID, len(s.locations))

	// Locations are warmed sequentially; the whole point is not to fan out
	// against rate-limited providers.
	for _, loc := range s.locations {
		lat, lon, err := s.resolver.Resolve(loc)
		if err != nil {
			log.Printf("scheduler: %s: skipping location: %v", runID, err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		res, err := s.soils.GetSoilData(ctx, lat, lon)
		cancel()
		if err != nil {
			log.Printf("scheduler: %s: soil warm failed for %.4f,%.4f: %v", runID, lat, lon, err)
			continue
		}

		s.cache.Set(soil.CacheKey(lat, lon), res, s.cacheTTL)
	}

	log.Printf("scheduler: completed soil warm job %s", runID)
}
