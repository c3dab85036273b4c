package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/agrimitra/agridata/internal/cache"
	"github.com/agrimitra/agridata/internal/market"
	"github.com/agrimitra/agridata/internal/soil"
	"github.com/agrimitra/agridata/internal/weather"
)

var validate = validator.New()

// Services bundles the domain services and shared cache the routes depend on.
type Services struct {
	Soil    *soil.Service
	Weather *weather.Service
	Market  *market.Service

	Cache        *cache.TTLCache
	SoilCacheTTL time.Duration
}

// RequestID assigns a correlation id to every request and echoes it back.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-Id", id)
		return c.Next()
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Services) {
	api := app.Group("/api")

	api.Get("/soil", func(c *fiber.Ctx) error {
		coords, err := parseCoords(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		key := soil.CacheKey(coords.Lat, coords.Lon)
		if v, ok := svc.Cache.Get(key); ok {
			if res, ok := v.(soil.Result); ok {
				return c.JSON(res)
			}
		}

		res, err := svc.Soil.GetSoilData(c.Context(), coords.Lat, coords.Lon)
		if err != nil {
			if errors.Is(err, soil.ErrAllSourcesUnavailable) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "soil data unavailable")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch soil data")
		}

		svc.Cache.Set(key, res, svc.SoilCacheTTL)
		return c.JSON(res)
	})

	api.Get("/weather", func(c *fiber.Ctx) error {
		coords, err := parseCoords(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var req weatherQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snap := svc.Weather.GetWeatherData(c.Context(), coords.Lat, coords.Lon, req.StartDate, req.EndDate)
		return c.JSON(snap)
	})

	api.Get("/market-prices", func(c *fiber.Ctx) error {
		q, err := parseMarketQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res := svc.Market.GetMarketPrices(c.Context(), q)
		return c.JSON(res)
	})

	api.Get("/agmarket", func(c *fiber.Ctx) error {
		q, err := parseMarketQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res := svc.Market.ProxyPrices(c.Context(), q)
		return c.JSON(res)
	})
}

// coordsQuery holds validated coordinates.
type coordsQuery struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

func parseCoords(c *fiber.Ctx) (coordsQuery, error) {
	var q coordsQuery

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return q, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return q, errors.New("lon must be a number")
	}

	q.Lat, q.Lon = lat, lon
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// weatherQuery holds the optional historical date range.
type weatherQuery struct {
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
}

func (w *weatherQuery) bind(c *fiber.Ctx) error {
	w.StartDate = c.Query("start_date")
	w.EndDate = c.Query("end_date")
	return validate.Struct(w)
}

func parseMarketQuery(c *fiber.Ctx) (market.Query, error) {
	q := market.Query{
		Commodity: c.Query("commodity"),
		State:     c.Query("state"),
		District:  c.Query("district"),
		Market:    c.Query("market"),
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := parseDate(fromStr)
		if err != nil {
			return q, err
		}
		q.From = from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := parseDate(toStr)
		if err != nil {
			return q, err
		}
		q.To = to
	}

	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return q, errors.New("to must not be before from")
	}
	return q, nil
}

// parseDate accepts ISO dates or Unix seconds.
func parseDate(s string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid date format; use YYYY-MM-DD or unix seconds")
}
