package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skywatchhq/skywatch/internal/feeds"
)

// DefaultISSURL is the wheretheiss.at endpoint for the station (NORAD 25544).
const DefaultISSURL = "https://api.wheretheiss.at/v1/satellites/25544"

// ISSClient fetches the station telemetry feed.
type ISSClient struct {
	name    string
	url     string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewISSClient constructs the client. An empty url uses the default endpoint.
func NewISSClient(client *http.Client, url string) *ISSClient {
	if url == "" {
		url = DefaultISSURL
	}
	return &ISSClient{
		name:    "iss-telemetry",
		url:     url,
		client:  client,
		circuit: newBreaker("iss-telemetry"),
	}
}

func (c *ISSClient) Name() string {
	return c.name
}

// Fetch returns one telemetry sample.
func (c *ISSClient) Fetch(ctx context.Context) (feeds.ISSReading, error) {
	var payload struct {
		Latitude   float64 `json:"latitude"`
		Longitude  float64 `json:"longitude"`
		Altitude   float64 `json:"altitude"`
		Velocity   float64 `json:"velocity"`
		Visibility string  `json:"visibility"`
		Timestamp  int64   `json:"timestamp"`
	}
	if err := getJSON(ctx, c.client, c.circuit, defaultBackoff, c.url, &payload); err != nil {
		return feeds.ISSReading{}, fmt.Errorf("iss fetch: %w", err)
	}

	ts := time.Unix(payload.Timestamp, 0).UTC()
	return feeds.ISSReading{
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
		AltitudeKm:  payload.Altitude,
		VelocityKmh: payload.Velocity,
		Visibility:  payload.Visibility,
		Timestamp:   ts,
	}, nil
}
