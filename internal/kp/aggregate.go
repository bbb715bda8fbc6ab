// Package kp derives the dashboard views of the planetary K-index feed:
// hourly aggregates, latest-valid selection, and severity labels.
package kp

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/skywatchhq/skywatch/internal/feeds"
	"github.com/skywatchhq/skywatch/internal/timeutil"
)

// ErrNoReadings is returned when an operation needs at least one reading.
var ErrNoReadings = errors.New("kp: no readings")

// HourlyAggregate summarizes the readings that fall in one local-time hour.
type HourlyAggregate struct {
	BucketStart time.Time `json:"bucket_start"`
	Avg         float64   `json:"avg"`
	Max         float64   `json:"max"`
	Min         float64   `json:"min"`
	Count       int       `json:"count"`
}

// HourlyAggregates groups readings into local-hour buckets and computes
// mean, max, and min per bucket, most recent bucket first. An unparseable
// timestamp fails the whole call; the caller keeps its previous view.
func HourlyAggregates(readings []feeds.KpReading, loc *time.Location) ([]HourlyAggregate, error) {
	if len(readings) == 0 {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	buckets := make(map[time.Time][]float64)
	for _, r := range readings {
		ts, err := timeutil.Parse(r.TimeTag)
		if err != nil {
			return nil, fmt.Errorf("kp: bad time tag %q: %w", r.TimeTag, err)
		}
		start := timeutil.TruncateHourLocal(ts, loc)
		buckets[start] = append(buckets[start], r.Kp)
	}

	out := make([]HourlyAggregate, 0, len(buckets))
	for start, values := range buckets {
		agg := HourlyAggregate{
			BucketStart: start,
			Max:         values[0],
			Min:         values[0],
			Count:       len(values),
		}
		var sum float64
		for _, v := range values {
			sum += v
			if v > agg.Max {
				agg.Max = v
			}
			if v < agg.Min {
				agg.Min = v
			}
		}
		agg.Avg = sum / float64(len(values))
		out = append(out, agg)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].BucketStart.After(out[j].BucketStart)
	})
	return out, nil
}

// LatestValid returns the most recent non-sentinel reading. Sentinel-valued
// readings are skipped newest-first; when every reading is a sentinel the
// first element of the original list is returned as a last resort, even
// though it is itself a sentinel.
func LatestValid(readings []feeds.KpReading) (feeds.KpReading, error) {
	if len(readings) == 0 {
		return feeds.KpReading{}, ErrNoReadings
	}

	ordered := make([]feeds.KpReading, len(readings))
	copy(ordered, readings)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, erri := timeutil.Parse(ordered[i].TimeTag)
		tj, errj := timeutil.Parse(ordered[j].TimeTag)
		if erri != nil || errj != nil {
			// Unparseable tags sort oldest so they are considered last.
			return errj != nil && erri == nil
		}
		return ti.After(tj)
	})

	for _, r := range ordered {
		if !r.IsSentinel() {
			return r, nil
		}
	}
	return readings[0], nil
}

// Severity maps a K-index value to the display status used on the dashboard
// cards, aligned with the NOAA G-scale.
func Severity(kp float64) string {
	switch {
	case kp < 3:
		return "quiet"
	case kp < 4:
		return "unsettled"
	case kp < 5:
		return "active"
	case kp < 6:
		return "minor storm"
	case kp < 7:
		return "moderate storm"
	case kp < 8:
		return "strong storm"
	case kp < 9:
		return "severe storm"
	default:
		return "extreme storm"
	}
}
