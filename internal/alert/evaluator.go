// Package alert decides, once per refresh cycle, whether the monitored
// severity index warrants a user-visible notification.
package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skywatchhq/skywatch/internal/kp"
	"github.com/skywatchhq/skywatch/internal/notify"
	"github.com/skywatchhq/skywatch/internal/observability"
	"github.com/skywatchhq/skywatch/internal/settings"
)

// Presence reports whether a client is actively viewing the dashboard.
// Alerts are suppressed while one is; the capability is injected rather than
// read from shared global state.
type Presence interface {
	Active() bool
}

// Evaluator compares the latest Kp value against the threshold and the
// persisted last-alerted value.
type Evaluator struct {
	store     settings.Store
	channel   notify.Channel
	presence  Presence
	threshold float64
	metrics   *observability.Metrics
	log       *slog.Logger
}

// NewEvaluator constructs an evaluator. threshold is the fixed Kp level at
// or above which alerts fire. A nil metrics disables counters.
func NewEvaluator(store settings.Store, channel notify.Channel, presence Presence, threshold float64,
	metrics *observability.Metrics, log *slog.Logger) *Evaluator {
	if log == nil {
		log = slog.Default()
	}
	return &Evaluator{
		store:     store,
		channel:   channel,
		presence:  presence,
		threshold: threshold,
		metrics:   metrics,
		log:       log,
	}
}

// Evaluate runs one alert decision for the given value. Preference
// read/write failures are logged and skip the cycle; the next refresh
// retries. Evaluate never returns an error to the refresh path.
func (e *Evaluator) Evaluate(ctx context.Context, value float64) {
	enabled, err := e.store.GetBool(settings.KeyAlertsEnabled, true)
	if err != nil {
		e.log.Warn("alert: reading enabled flag failed, skipping cycle", "err", err)
		return
	}
	lastAlerted, err := e.store.GetFloat(settings.KeyLastAlerted, settings.LastAlertedSentinel)
	if err != nil {
		e.log.Warn("alert: reading last-alerted value failed, skipping cycle", "err", err)
		return
	}

	if value < e.threshold {
		// Re-arm: clearing the recorded value lets the next excursion fire
		// without requiring it to match the old one.
		if lastAlerted != settings.LastAlertedSentinel {
			if err := e.store.SetFloat(settings.KeyLastAlerted, settings.LastAlertedSentinel); err != nil {
				e.log.Warn("alert: resetting last-alerted value failed", "err", err)
			}
		}
		return
	}

	// Exact equality on the stored representation, not a tolerance check:
	// the same value must never alert twice in a row.
	if !enabled || e.presence.Active() || value == lastAlerted {
		return
	}

	n := notify.Notification{
		Title:     "Geomagnetic activity alert",
		Body:      fmt.Sprintf("Kp index is %.2f (%s)", value, kp.Severity(value)),
		TapTarget: "/kp",
	}
	if err := e.channel.Send(ctx, n); err != nil {
		// Delivery failed; leave state untouched so the next cycle retries.
		e.log.Warn("alert: notification delivery failed", "err", err)
		if e.metrics != nil {
			e.metrics.NotifyFailures.Inc()
		}
		return
	}
	if e.metrics != nil {
		e.metrics.AlertsFired.Inc()
	}
	if err := e.store.SetFloat(settings.KeyLastAlerted, value); err != nil {
		e.log.Warn("alert: persisting last-alerted value failed", "err", err)
	}
}
