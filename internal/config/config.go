// Package config reads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AppConfig holds all service settings.
type AppConfig struct {
	Port string

	// RefreshInterval controls how often the feeds are polled.
	RefreshInterval time.Duration

	// FetchTimeout bounds each individual feed fetch.
	FetchTimeout time.Duration

	// HTTPTimeout is the outbound HTTP client timeout.
	HTTPTimeout time.Duration

	// Feed endpoints; empty values use each client's default.
	NOAAKpURL  string
	ISSURL     string
	NEOBaseURL string
	NASAAPIKey string

	// DBPath is the sqlite database file for journal, accounts, and
	// preferences.
	DBPath string

	JWTSecret string
	TokenTTL  time.Duration

	// KpAlertThreshold is the severity level at or above which alerts fire.
	KpAlertThreshold float64

	// AlertWebhookURL is the notification delivery endpoint; empty logs
	// notifications instead.
	AlertWebhookURL string

	// PresenceTTL is how long after a client heartbeat the dashboard
	// counts as foregrounded.
	PresenceTTL time.Duration

	// DisplayZone is the IANA zone hourly aggregation buckets in;
	// empty uses the process-local zone.
	DisplayZone string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:       getenvDefault("PORT", "8080"),
		NOAAKpURL:  os.Getenv("NOAA_KP_URL"),
		ISSURL:     os.Getenv("ISS_URL"),
		NEOBaseURL: os.Getenv("NEO_BASE_URL"),
		NASAAPIKey: os.Getenv("NASA_API_KEY"),

		DBPath:    getenvDefault("DB_PATH", "skywatch.db"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		AlertWebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
		DisplayZone:     os.Getenv("DISPLAY_ZONE"),
	}

	var err error
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "20s"); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getenvDuration("TOKEN_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.PresenceTTL, err = getenvDuration("PRESENCE_TTL", "2m"); err != nil {
		return nil, err
	}

	cfg.KpAlertThreshold = getenvFloat("KP_ALERT_THRESHOLD", 5.0)

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	raw := getenvDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
