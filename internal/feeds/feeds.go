package feeds

import (
	"context"
	"time"
)

// Feed identifies one external data source tracked by the dashboard.
type Feed string

const (
	FeedKp   Feed = "kp"
	FeedISS  Feed = "iss"
	FeedNEO  Feed = "neo"
	FeedMoon Feed = "moon"
)

// KpReading is one timestamped planetary K-index value as delivered by NOAA.
// TimeTag keeps the raw source timestamp string; parsing happens at
// aggregation time so the cache stores exactly what the feed returned.
type KpReading struct {
	TimeTag string  `json:"time_tag"`
	Kp      float64 `json:"kp"`
}

// IsSentinel reports whether the reading carries the "no data" placeholder
// value. Sentinel readings are excluded by latest-value selection.
func (r KpReading) IsSentinel() bool {
	return r.Kp == 0
}

// ISSReading is one telemetry sample for the station.
type ISSReading struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	AltitudeKm  float64   `json:"altitude_km"`
	VelocityKmh float64   `json:"velocity_kmh"`
	Visibility  string    `json:"visibility"`
	Timestamp   time.Time `json:"timestamp"`
}

// Asteroid is one near-earth object from the close-approach feed.
type Asteroid struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DiameterMinM   float64   `json:"diameter_min_m"`
	DiameterMaxM   float64   `json:"diameter_max_m"`
	MissDistanceAu float64   `json:"miss_distance_au"`
	VelocityKps    float64   `json:"velocity_kps"`
	ApproachAt     time.Time `json:"approach_at"`
}

// AvgDiameterM returns the mean of the estimated diameter bounds.
func (a Asteroid) AvgDiameterM() float64 {
	return (a.DiameterMinM + a.DiameterMaxM) / 2
}

// KpProvider fetches the current planetary K-index reading list.
type KpProvider interface {
	Name() string
	Fetch(ctx context.Context) ([]KpReading, error)
}

// ISSProvider fetches the current station telemetry sample.
type ISSProvider interface {
	Name() string
	Fetch(ctx context.Context) (ISSReading, error)
}

// NEOProvider fetches upcoming near-earth object approaches.
type NEOProvider interface {
	Name() string
	Fetch(ctx context.Context) ([]Asteroid, error)
}
