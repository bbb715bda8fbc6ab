// Package refresh fans out one fetch per external feed and feeds the alert
// evaluator with the freshest severity reading.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/skywatchhq/skywatch/internal/alert"
	"github.com/skywatchhq/skywatch/internal/feeds"
	"github.com/skywatchhq/skywatch/internal/kp"
	"github.com/skywatchhq/skywatch/internal/observability"
	"github.com/skywatchhq/skywatch/internal/store"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Orchestrator runs one refresh cycle across all feeds. Feeds fetch
// concurrently and fail independently: a slow or broken feed only leaves its
// own slot stale.
type Orchestrator struct {
	cache     *store.Memory
	kpFeed    feeds.KpProvider
	issFeed   feeds.ISSProvider
	neoFeed   feeds.NEOProvider
	evaluator *alert.Evaluator
	metrics   *observability.Metrics
	timeout   time.Duration
	clock     clockwork.Clock
	log       *slog.Logger
}

// New constructs an orchestrator. A nil clock uses real time; a nil logger
// uses the default.
func New(cache *store.Memory, kpFeed feeds.KpProvider, issFeed feeds.ISSProvider, neoFeed feeds.NEOProvider,
	evaluator *alert.Evaluator, metrics *observability.Metrics, timeout time.Duration,
	clock clockwork.Clock, log *slog.Logger) *Orchestrator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		cache:     cache,
		kpFeed:    kpFeed,
		issFeed:   issFeed,
		neoFeed:   neoFeed,
		evaluator: evaluator,
		metrics:   metrics,
		timeout:   timeout,
		clock:     clock,
		log:       log,
	}
}

// RefreshAll triggers one fetch per feed and waits for all of them. Alert
// evaluation and the Kp last-updated marker are tied to the Kp fetch alone,
// not to the cycle as a whole.
func (o *Orchestrator) RefreshAll(ctx context.Context) {
	started := o.clock.Now()
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		o.refreshKp(ctx)
	}()
	go func() {
		defer wg.Done()
		o.refreshISS(ctx)
	}()
	go func() {
		defer wg.Done()
		o.refreshNEO(ctx)
	}()
	wg.Wait()

	o.metrics.RefreshDuration.Observe(o.clock.Since(started).Seconds())
}

func (o *Orchestrator) refreshKp(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	readings, err := o.kpFeed.Fetch(ctx)
	if err != nil {
		o.feedFailed(feeds.FeedKp, o.kpFeed.Name(), err)
		return
	}
	now := o.clock.Now()
	o.cache.SetKp(readings, now)
	o.feedSucceeded(feeds.FeedKp, now)

	latest, err := kp.LatestValid(readings)
	if err != nil {
		o.log.Warn("refresh: kp feed returned no readings, skipping alert evaluation")
		return
	}
	o.evaluator.Evaluate(ctx, latest.Kp)
}

func (o *Orchestrator) refreshISS(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	reading, err := o.issFeed.Fetch(ctx)
	if err != nil {
		o.feedFailed(feeds.FeedISS, o.issFeed.Name(), err)
		return
	}
	now := o.clock.Now()
	o.cache.SetISS(reading, now)
	o.feedSucceeded(feeds.FeedISS, now)
}

func (o *Orchestrator) refreshNEO(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	objects, err := o.neoFeed.Fetch(ctx)
	if err != nil {
		o.feedFailed(feeds.FeedNEO, o.neoFeed.Name(), err)
		return
	}
	now := o.clock.Now()
	o.cache.SetNEO(objects, now)
	o.feedSucceeded(feeds.FeedNEO, now)
}

// feedFailed logs and counts a fetch failure; the slot keeps its previous
// data until the next successful refresh.
func (o *Orchestrator) feedFailed(feed feeds.Feed, provider string, err error) {
	o.log.Warn("refresh: feed fetch failed", "feed", feed, "provider", provider, "err", err)
	o.metrics.FeedFetches.WithLabelValues(string(feed), outcomeError).Inc()
}

func (o *Orchestrator) feedSucceeded(feed feeds.Feed, at time.Time) {
	o.metrics.FeedFetches.WithLabelValues(string(feed), outcomeSuccess).Inc()
	o.metrics.LastFetchUnix.WithLabelValues(string(feed)).Set(float64(at.Unix()))
}
