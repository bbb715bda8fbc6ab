package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skywatchhq/skywatch/internal/feeds"
)

// DefaultNEOBaseURL is the NASA NeoWs feed endpoint.
const DefaultNEOBaseURL = "https://api.nasa.gov/neo/rest/v1/feed"

// neoWindowDays is the span requested per fetch; NeoWs caps a request at 7.
const neoWindowDays = 7

// NEOClient fetches near-earth object close approaches from NeoWs.
type NEOClient struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

// NewNEOClient constructs the client. An empty baseURL uses the default
// endpoint; an empty apiKey falls back to NASA's DEMO_KEY.
func NewNEOClient(client *http.Client, baseURL, apiKey string) *NEOClient {
	if baseURL == "" {
		baseURL = DefaultNEOBaseURL
	}
	if apiKey == "" {
		apiKey = "DEMO_KEY"
	}
	return &NEOClient{
		name:    "nasa-neo",
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		circuit: newBreaker("nasa-neo"),
		now:     time.Now,
	}
}

func (c *NEOClient) Name() string {
	return c.name
}

type neoObject struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	EstimatedDiameter struct {
		Meters struct {
			Min float64 `json:"estimated_diameter_min"`
			Max float64 `json:"estimated_diameter_max"`
		} `json:"meters"`
	} `json:"estimated_diameter"`
	CloseApproachData []struct {
		EpochDateCloseApproach int64 `json:"epoch_date_close_approach"`
		MissDistance           struct {
			Astronomical string `json:"astronomical"`
		} `json:"miss_distance"`
		RelativeVelocity struct {
			KilometersPerSecond string `json:"kilometers_per_second"`
		} `json:"relative_velocity"`
	} `json:"close_approach_data"`
}

// Fetch returns the objects approaching within the feed window, sorted by
// approach time. Objects with no close-approach entry are dropped;
// malformed numeric strings fail the fetch.
func (c *NEOClient) Fetch(ctx context.Context) ([]feeds.Asteroid, error) {
	start := c.now().UTC()
	end := start.AddDate(0, 0, neoWindowDays)

	q := url.Values{}
	q.Set("start_date", start.Format("2006-01-02"))
	q.Set("end_date", end.Format("2006-01-02"))
	q.Set("api_key", c.apiKey)

	var payload struct {
		NearEarthObjects map[string][]neoObject `json:"near_earth_objects"`
	}
	u := fmt.Sprintf("%s?%s", c.baseURL, q.Encode())
	if err := getJSON(ctx, c.client, c.circuit, defaultBackoff, u, &payload); err != nil {
		return nil, fmt.Errorf("neo fetch: %w", err)
	}

	var objects []feeds.Asteroid
	for _, day := range payload.NearEarthObjects {
		for _, obj := range day {
			if len(obj.CloseApproachData) == 0 {
				continue
			}
			approach := obj.CloseApproachData[0]

			dist, err := strconv.ParseFloat(approach.MissDistance.Astronomical, 64)
			if err != nil {
				return nil, fmt.Errorf("neo fetch: bad miss distance %q: %w", approach.MissDistance.Astronomical, err)
			}
			vel, err := strconv.ParseFloat(approach.RelativeVelocity.KilometersPerSecond, 64)
			if err != nil {
				return nil, fmt.Errorf("neo fetch: bad velocity %q: %w", approach.RelativeVelocity.KilometersPerSecond, err)
			}

			objects = append(objects, feeds.Asteroid{
				ID:             obj.ID,
				Name:           obj.Name,
				DiameterMinM:   obj.EstimatedDiameter.Meters.Min,
				DiameterMaxM:   obj.EstimatedDiameter.Meters.Max,
				MissDistanceAu: dist,
				VelocityKps:    vel,
				ApproachAt:     time.UnixMilli(approach.EpochDateCloseApproach).UTC(),
			})
		}
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].ApproachAt.Before(objects[j].ApproachAt)
	})
	return objects, nil
}
