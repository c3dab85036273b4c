package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/agrimitra/agridata/internal/api/http"
	"github.com/agrimitra/agridata/internal/cache"
	"github.com/agrimitra/agridata/internal/config"
	"github.com/agrimitra/agridata/internal/geo"
	"github.com/agrimitra/agridata/internal/market"
	marketproviders "github.com/agrimitra/agridata/internal/market/providers"
	"github.com/agrimitra/agridata/internal/scheduler"
	"github.com/agrimitra/agridata/internal/soil"
	soilproviders "github.com/agrimitra/agridata/internal/soil/providers"
	"github.com/agrimitra/agridata/internal/weather"
	weatherproviders "github.com/agrimitra/agridata/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// One cache instance per process, passed explicitly to everything that
	// caches.
	ttlCache := cache.New()

	// Soil chain: primary with deep retries, backup with shallow ones.
	soilService := soil.NewService(
		soilproviders.NewSoilGridsProvider(httpClient, cfg.SoilGridsURL),
		soilproviders.NewOpenLandMapProvider(httpClient, cfg.OpenLandMapURL),
	)

	// Weather chain: single attempt, synthetic fallback.
	weatherService := weather.NewService(
		weatherproviders.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoURL, cfg.OpenMeteoArchiveURL),
	)

	// Market chain: credential rotation, static dataset, synthetic fallback.
	marketService := market.NewService(
		marketproviders.NewDataGovClient(httpClient, cfg.DataGovURL),
		cfg.DataGovAPIKeys,
		ttlCache,
		cfg.MarketCacheTTL,
	)

	// Soil warm scheduler for configured farm locations.
	resolver := geo.NewResolver(cfg.GeocoderAPIKey)
	sched := scheduler.New(cfg.WarmLocations, cfg.WarmInterval, cfg.SoilCacheTTL, soilService, ttlCache, resolver)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "agridata",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(httpapi.RequestID())
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "agridata",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Services{
		Soil:         soilService,
		Weather:      weatherService,
		Market:       marketService,
		Cache:        ttlCache,
		SoilCacheTTL: cfg.SoilCacheTTL,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
