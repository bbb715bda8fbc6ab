package kp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywatchhq/skywatch/internal/feeds"
)

func reading(tag string, v float64) feeds.KpReading {
	return feeds.KpReading{TimeTag: tag, Kp: v}
}

func TestHourlyAggregatesBuckets(t *testing.T) {
	// Unordered readings across two hours; aggregation runs in UTC so the
	// tags land in the 10:00 and 09:00 buckets.
	readings := []feeds.KpReading{
		reading("2026-05-01 10:05:00", 3.2),
		reading("2026-05-01 10:47:00", 4.1),
		reading("2026-05-01 09:58:00", 2.0),
	}

	aggs, err := HourlyAggregates(readings, time.UTC)
	require.NoError(t, err)
	require.Len(t, aggs, 2)

	ten := aggs[0]
	assert.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), ten.BucketStart)
	assert.InDelta(t, 3.65, ten.Avg, 1e-9)
	assert.Equal(t, 4.1, ten.Max)
	assert.Equal(t, 3.2, ten.Min)
	assert.Equal(t, 2, ten.Count)

	nine := aggs[1]
	assert.Equal(t, time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC), nine.BucketStart)
	assert.Equal(t, 2.0, nine.Avg)
	assert.Equal(t, 2.0, nine.Max)
	assert.Equal(t, 2.0, nine.Min)
}

func TestHourlyAggregatesPartitionsInput(t *testing.T) {
	readings := []feeds.KpReading{
		reading("2026-05-01 00:10:00", 1),
		reading("2026-05-01 00:40:00", 2),
		reading("2026-05-01 01:10:00", 3),
		reading("2026-05-01 02:10:00", 4),
		reading("2026-05-01 02:59:59", 5),
	}

	aggs, err := HourlyAggregates(readings, time.UTC)
	require.NoError(t, err)

	total := 0
	for _, a := range aggs {
		total += a.Count
	}
	assert.Equal(t, len(readings), total, "every reading lands in exactly one bucket")
}

func TestHourlyAggregatesEmpty(t *testing.T) {
	aggs, err := HourlyAggregates(nil, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, aggs)
}

func TestHourlyAggregatesBadTimestampFailsWhole(t *testing.T) {
	readings := []feeds.KpReading{
		reading("2026-05-01 10:05:00", 3.2),
		reading("not a timestamp", 4.1),
	}
	_, err := HourlyAggregates(readings, time.UTC)
	assert.Error(t, err)
}

func TestHourlyAggregatesLocalZoneBuckets(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 23:30 UTC is 00:30 next day in Berlin (CET, winter): one local bucket
	// on Jan 11 even though the UTC date is Jan 10.
	aggs, err := HourlyAggregates([]feeds.KpReading{
		reading("2026-01-10 23:30:00", 2.5),
	}, loc)
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, 11, aggs[0].BucketStart.Day())
	assert.Equal(t, 0, aggs[0].BucketStart.Hour())
}

func TestLatestValidSkipsSentinel(t *testing.T) {
	readings := []feeds.KpReading{
		reading("2026-05-01 12:00:00", 0.0),
		reading("2026-05-01 11:00:00", 3.0),
	}

	got, err := LatestValid(readings)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Kp)
	assert.Equal(t, "2026-05-01 11:00:00", got.TimeTag)
}

func TestLatestValidPicksNewest(t *testing.T) {
	readings := []feeds.KpReading{
		reading("2026-05-01 09:00:00", 1.7),
		reading("2026-05-01 12:00:00", 4.3),
		reading("2026-05-01 11:00:00", 3.0),
	}

	got, err := LatestValid(readings)
	require.NoError(t, err)
	assert.Equal(t, 4.3, got.Kp)
}

func TestLatestValidAllSentinelFallsBackToFirst(t *testing.T) {
	readings := []feeds.KpReading{
		reading("2026-05-01 09:00:00", 0),
		reading("2026-05-01 12:00:00", 0),
	}

	got, err := LatestValid(readings)
	require.NoError(t, err)
	// Fallback is the first element of the original list, sentinel or not.
	assert.Equal(t, "2026-05-01 09:00:00", got.TimeTag)
	assert.True(t, got.IsSentinel())
}

func TestLatestValidEmpty(t *testing.T) {
	_, err := LatestValid(nil)
	assert.ErrorIs(t, err, ErrNoReadings)
}

func TestSeverity(t *testing.T) {
	cases := []struct {
		kp   float64
		want string
	}{
		{0, "quiet"},
		{2.9, "quiet"},
		{3.5, "unsettled"},
		{4.2, "active"},
		{5.0, "minor storm"},
		{6.7, "moderate storm"},
		{7.3, "strong storm"},
		{8.9, "severe storm"},
		{9.0, "extreme storm"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Severity(tc.kp), "kp=%v", tc.kp)
	}
}
