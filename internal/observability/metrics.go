// Package observability holds the Prometheus instrumentation.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters, gauges, and histograms for the service.
type Metrics struct {
	FeedFetches     *prometheus.CounterVec // labels: feed, outcome={success,error}
	RefreshDuration prometheus.Histogram
	AlertsFired     prometheus.Counter
	NotifyFailures  prometheus.Counter
	LastFetchUnix   *prometheus.GaugeVec // label: feed
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skywatch",
			Name:      "feed_fetches_total",
			Help:      "Feed fetch attempts by feed and outcome.",
		}, []string{"feed", "outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "skywatch",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of one full refresh fan-out.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		AlertsFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skywatch",
			Name:      "alerts_fired_total",
			Help:      "Threshold alerts delivered to the notification channel.",
		}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skywatch",
			Name:      "notify_failures_total",
			Help:      "Notification deliveries that failed.",
		}),
		LastFetchUnix: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "skywatch",
			Name:      "last_fetch_timestamp_seconds",
			Help:      "Unix time of the last successful fetch per feed.",
		}, []string{"feed"}),
	}
}

// NewMetrics creates the metrics and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeedFetches,
		m.RefreshDuration,
		m.AlertsFired,
		m.NotifyFailures,
		m.LastFetchUnix,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so parallel tests avoid
// "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
