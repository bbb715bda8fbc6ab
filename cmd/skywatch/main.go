package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/lmittmann/tint"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skywatchhq/skywatch/internal/alert"
	httpapi "github.com/skywatchhq/skywatch/internal/api/http"
	"github.com/skywatchhq/skywatch/internal/auth"
	"github.com/skywatchhq/skywatch/internal/config"
	"github.com/skywatchhq/skywatch/internal/feeds/clients"
	"github.com/skywatchhq/skywatch/internal/journal"
	"github.com/skywatchhq/skywatch/internal/notify"
	"github.com/skywatchhq/skywatch/internal/observability"
	"github.com/skywatchhq/skywatch/internal/refresh"
	"github.com/skywatchhq/skywatch/internal/settings"
	"github.com/skywatchhq/skywatch/internal/store"
)

func main() {
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file loaded", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	zone := time.Local
	if cfg.DisplayZone != "" {
		zone, err = time.LoadLocation(cfg.DisplayZone)
		if err != nil {
			log.Error("invalid DISPLAY_ZONE", "zone", cfg.DisplayZone, "err", err)
			os.Exit(1)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Error("failed to open database", "path", cfg.DBPath, "err", err)
		os.Exit(1)
	}

	authSvc, err := auth.NewService(db, []byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		log.Error("failed to init auth", "err", err)
		os.Exit(1)
	}
	journalSvc, err := journal.NewService(db)
	if err != nil {
		log.Error("failed to init journal", "err", err)
		os.Exit(1)
	}
	prefs, err := settings.NewGormStore(db)
	if err != nil {
		log.Error("failed to init preferences", "err", err)
		os.Exit(1)
	}

	// Shared HTTP client for outbound feed calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	cache := store.NewMemory()
	metrics := observability.NewMetrics()
	presence := alert.NewHeartbeatTracker(cfg.PresenceTTL, clockwork.NewRealClock())

	var channel notify.Channel = notify.LogChannel{Log: log}
	if cfg.AlertWebhookURL != "" {
		channel, err = notify.NewWebhookChannel(cfg.AlertWebhookURL, notify.WithHTTPClient(httpClient))
		if err != nil {
			log.Error("failed to init alert webhook", "err", err)
			os.Exit(1)
		}
	}
	evaluator := alert.NewEvaluator(prefs, channel, presence, cfg.KpAlertThreshold, metrics, log)

	orchestrator := refresh.New(
		cache,
		clients.NewNOAAKpClient(httpClient, cfg.NOAAKpURL),
		clients.NewISSClient(httpClient, cfg.ISSURL),
		clients.NewNEOClient(httpClient, cfg.NEOBaseURL, cfg.NASAAPIKey),
		evaluator,
		metrics,
		cfg.FetchTimeout,
		nil,
		log,
	)

	sched := refresh.NewScheduler(orchestrator, cfg.RefreshInterval, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "err", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "skywatch",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
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

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "skywatch",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Cache:     cache,
		Prefs:     prefs,
		Journal:   journalSvc,
		Auth:      authSvc,
		Refresher: orchestrator,
		Presence:  presence,
		Zone:      zone,

		// A card is stale once a full refresh interval has been missed.
		StaleAfter: 2 * cfg.RefreshInterval,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "err", err)
	}
}
