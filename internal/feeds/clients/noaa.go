package clients

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/skywatchhq/skywatch/internal/feeds"
)

// DefaultNOAAKpURL is the SWPC planetary K-index product.
const DefaultNOAAKpURL = "https://services.swpc.noaa.gov/products/noaa-planetary-k-index.json"

// NOAAKpClient fetches the planetary K-index feed. The product is a JSON
// table: a header row followed by [time_tag, kp, a_running, station_count]
// string rows.
type NOAAKpClient struct {
	name    string
	url     string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewNOAAKpClient constructs the client. An empty url uses the default
// product endpoint.
func NewNOAAKpClient(client *http.Client, url string) *NOAAKpClient {
	if url == "" {
		url = DefaultNOAAKpURL
	}
	return &NOAAKpClient{
		name:    "noaa-kp",
		url:     url,
		client:  client,
		circuit: newBreaker("noaa-kp"),
	}
}

func (c *NOAAKpClient) Name() string {
	return c.name
}

// Fetch returns the feed's readings, newest last as delivered by the
// product. Rows with a malformed Kp column fail the fetch.
func (c *NOAAKpClient) Fetch(ctx context.Context) ([]feeds.KpReading, error) {
	var rows [][]string
	if err := getJSON(ctx, c.client, c.circuit, defaultBackoff, c.url, &rows); err != nil {
		return nil, fmt.Errorf("noaa kp fetch: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("noaa kp fetch: product has no data rows")
	}

	readings := make([]feeds.KpReading, 0, len(rows)-1)
	for _, row := range rows[1:] { // rows[0] is the header
		if len(row) < 2 {
			return nil, fmt.Errorf("noaa kp fetch: short row %v", row)
		}
		value, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("noaa kp fetch: bad kp value %q: %w", row[1], err)
		}
		readings = append(readings, feeds.KpReading{TimeTag: row[0], Kp: value})
	}
	return readings, nil
}
