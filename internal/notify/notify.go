// Package notify delivers user-visible alerts.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Notification is one user-visible alert with an optional tap target the
// client navigates to when opened.
type Notification struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	TapTarget string `json:"tap_target,omitempty"`
}

// Channel delivers notifications. Send failures are reported to the caller
// but must never be fatal to a refresh cycle.
type Channel interface {
	Send(ctx context.Context, n Notification) error
}

// WebhookChannel posts notifications as JSON to a configured endpoint,
// typically a push-gateway bridge in front of the mobile clients.
type WebhookChannel struct {
	url    string
	client *http.Client
}

// WebhookOption configures the channel.
type WebhookOption func(*WebhookChannel)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(ch *WebhookChannel) {
		if client != nil {
			ch.client = client
		}
	}
}

// NewWebhookChannel constructs a webhook channel.
func NewWebhookChannel(url string, opts ...WebhookOption) (*WebhookChannel, error) {
	if url == "" {
		return nil, errors.New("notify: empty webhook url")
	}
	ch := &WebhookChannel{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch, nil
}

// Send posts the notification payload.
func (w *WebhookChannel) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook returned %d", resp.StatusCode)
	}
	return nil
}

// LogChannel writes notifications to the log. It is the default channel when
// no webhook is configured, keeping alert evaluation observable in dev.
type LogChannel struct {
	Log *slog.Logger
}

// Send logs the notification.
func (l LogChannel) Send(_ context.Context, n Notification) error {
	logger := l.Log
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification", "title", n.Title, "body", n.Body, "tap_target", n.TapTarget)
	return nil
}
