// Package httpapi exposes the dashboard REST surface.
package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skywatchhq/skywatch/internal/alert"
	"github.com/skywatchhq/skywatch/internal/asteroid"
	"github.com/skywatchhq/skywatch/internal/auth"
	"github.com/skywatchhq/skywatch/internal/feeds"
	"github.com/skywatchhq/skywatch/internal/journal"
	"github.com/skywatchhq/skywatch/internal/kp"
	"github.com/skywatchhq/skywatch/internal/moon"
	"github.com/skywatchhq/skywatch/internal/refresh"
	"github.com/skywatchhq/skywatch/internal/settings"
	"github.com/skywatchhq/skywatch/internal/store"
	"github.com/skywatchhq/skywatch/internal/timeutil"
)

var validate = validator.New()

// Deps carries everything the handlers need.
type Deps struct {
	Cache     *store.Memory
	Prefs     settings.Store
	Journal   *journal.Service
	Auth      *auth.Service
	Refresher *refresh.Orchestrator
	Presence  *alert.HeartbeatTracker

	// Zone is the display timezone for hourly buckets and formatted times.
	Zone *time.Location

	// StaleAfter marks a dashboard card stale once its feed has not
	// refreshed for this long. Zero uses a 30 minute default.
	StaleAfter time.Duration

	// Now is overridable in tests; nil uses time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.Zone == nil {
		d.Zone = time.Local
	}
	if d.StaleAfter <= 0 {
		d.StaleAfter = 30 * time.Minute
	}

	v1 := app.Group("/api/v1")

	v1.Get("/kp/latest", func(c *fiber.Ctx) error {
		readings, fetchedAt, err := d.Cache.Kp()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no geomagnetic data cached yet")
		}
		latest, err := kp.LatestValid(readings)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no geomagnetic data cached yet")
		}
		return c.JSON(kpLatestResponse(latest, fetchedAt, d.Zone))
	})

	v1.Get("/kp/hourly", func(c *fiber.Ctx) error {
		readings, fetchedAt, err := d.Cache.Kp()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no geomagnetic data cached yet")
		}
		buckets, err := kp.HourlyAggregates(readings, d.Zone)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to aggregate geomagnetic data")
		}
		return c.JSON(fiber.Map{
			"buckets":    buckets,
			"fetched_at": fetchedAt,
		})
	})

	v1.Get("/iss", func(c *fiber.Ctx) error {
		reading, fetchedAt, err := d.Cache.ISS()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no station telemetry cached yet")
		}
		return c.JSON(fiber.Map{
			"position":   reading,
			"fetched_at": fetchedAt,
		})
	})

	v1.Get("/asteroids", func(c *fiber.Ctx) error {
		objects, fetchedAt, err := d.Cache.NEO()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no close-approach data cached yet")
		}
		hazardousOnly := c.QueryBool("hazardous")
		items := make([]fiber.Map, 0, len(objects))
		for _, a := range objects {
			if hazardousOnly && !asteroid.IsHazardous(a) {
				continue
			}
			items = append(items, asteroidResponse(a))
		}
		return c.JSON(fiber.Map{
			"objects":    items,
			"fetched_at": fetchedAt,
		})
	})

	v1.Get("/asteroids/featured", func(c *fiber.Ctx) error {
		objects, fetchedAt, err := d.Cache.NEO()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no close-approach data cached yet")
		}
		featured, ok := asteroid.Featured(objects, d.now())
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no upcoming close approaches")
		}
		resp := asteroidResponse(featured)
		resp["fetched_at"] = fetchedAt
		return c.JSON(resp)
	})

	v1.Get("/moon", func(c *fiber.Ctx) error {
		at := d.now()
		if raw := c.Query("at"); raw != "" {
			parsed, err := timeutil.Parse(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid at parameter")
			}
			at = parsed
		}
		return c.JSON(moon.At(at))
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.JSON(dashboard(d))
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		d.Refresher.RefreshAll(c.Context())
		return c.JSON(dashboard(d))
	})

	registerAccountRoutes(v1, d)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

// dashboard assembles the composite home-screen payload. Each card is
// independent: a feed that has never loaded simply leaves its card null.
func dashboard(d Deps) fiber.Map {
	body := fiber.Map{
		"kp":        nil,
		"iss":       nil,
		"asteroids": nil,
		"moon":      moon.At(d.now()),
	}

	stale := func(fetchedAt time.Time) bool {
		return d.now().Sub(fetchedAt) > d.StaleAfter
	}

	if readings, fetchedAt, err := d.Cache.Kp(); err == nil {
		if latest, err := kp.LatestValid(readings); err == nil {
			card := kpLatestResponse(latest, fetchedAt, d.Zone)
			card["stale"] = stale(fetchedAt)
			body["kp"] = card
		}
	}

	if reading, fetchedAt, err := d.Cache.ISS(); err == nil {
		body["iss"] = fiber.Map{
			"position":   reading,
			"fetched_at": fetchedAt,
			"stale":      stale(fetchedAt),
		}
	}

	if objects, fetchedAt, err := d.Cache.NEO(); err == nil {
		card := fiber.Map{
			"count":      len(objects),
			"fetched_at": fetchedAt,
			"stale":      stale(fetchedAt),
		}
		if featured, ok := asteroid.Featured(objects, d.now()); ok {
			card["featured"] = asteroidResponse(featured)
		}
		body["asteroids"] = card
	}

	return body
}

func kpLatestResponse(latest feeds.KpReading, fetchedAt time.Time, zone *time.Location) fiber.Map {
	resp := fiber.Map{
		"time_tag":   latest.TimeTag,
		"kp":         latest.Kp,
		"severity":   kp.Severity(latest.Kp),
		"fetched_at": fetchedAt,
	}
	if ts, err := timeutil.Parse(latest.TimeTag); err == nil {
		resp["display_time"] = timeutil.FormatLocal(ts, zone)
	}
	return resp
}

func asteroidResponse(a feeds.Asteroid) fiber.Map {
	return fiber.Map{
		"id":               a.ID,
		"name":             a.Name,
		"avg_diameter_m":   a.AvgDiameterM(),
		"miss_distance_au": a.MissDistanceAu,
		"velocity_kps":     a.VelocityKps,
		"approach_at":      a.ApproachAt,
		"is_hazardous":     asteroid.IsHazardous(a),
	}
}

// httpError maps domain errors onto HTTP status codes shared by the account
// handlers.
func httpError(err error) error {
	var invalid *journal.ValidationError
	switch {
	case errors.As(err, &invalid):
		return fiber.NewError(fiber.StatusBadRequest, invalid.Reason)
	case errors.Is(err, journal.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "entry not found")
	case errors.Is(err, auth.ErrEmailTaken):
		return fiber.NewError(fiber.StatusConflict, "email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
