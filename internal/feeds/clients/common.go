// Package clients implements the HTTP clients for the external feeds. All
// requests go through a shared resilience path: bounded retries with
// exponential backoff behind a per-feed circuit breaker.
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Backoff controls retry pacing for a feed client.
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// defaultBackoff is shared by all feed clients.
var defaultBackoff = Backoff{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errCircuitOpen = errors.New("circuit breaker open")
	errPermanent   = errors.New("permanent failure")
)

// newBreaker returns the circuit breaker settings used by every feed.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// getJSON fetches url and decodes the response body into out, retrying
// retryable failures with exponential backoff. 429 and 5xx responses count
// against the breaker; other non-2xx statuses fail immediately.
func getJSON(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, backoff Backoff, url string, out any) error {
	if client == nil {
		client = http.DefaultClient
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := cb.Execute(func() (interface{}, error) {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if reqErr != nil {
				return nil, reqErr
			}
			resp, doErr := client.Do(req)
			if doErr != nil {
				return nil, doErr
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return nil, errRateLimited
			case resp.StatusCode >= 500:
				return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				return nil, fmt.Errorf("%w: unexpected status %d", errPermanent, resp.StatusCode)
			}

			if decErr := json.NewDecoder(resp.Body).Decode(out); decErr != nil {
				return nil, fmt.Errorf("%w: decode response: %v", errPermanent, decErr)
			}
			return nil, nil
		})
		_ = result

		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		if !retryable(err) {
			return err
		}

		lastErr = err
		if attempt >= backoff.MaxRetries {
			return lastErr
		}

		delay := backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if backoff.MaxInterval > 0 && delay > backoff.MaxInterval {
			delay = backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// retryable reports whether the failure may clear on a retry within this
// fetch. Decode failures and non-5xx statuses do not; transport errors,
// rate limits, and server errors may.
func retryable(err error) bool {
	return !errors.Is(err, errPermanent)
}
