// Package timeutil parses the timestamp formats used by the external feeds
// and renders the canonical local-time display string.
package timeutil

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// noaaLayouts cover the space-separated UTC timestamps used by the SWPC
// product files, with and without fractional seconds.
var noaaLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

var errUnparseable = errors.New("unrecognized timestamp format")

// Parse interprets a feed timestamp string as UTC. It accepts RFC3339,
// NOAA-style space-separated timestamps, and unix epoch seconds.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errUnparseable
	}

	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	for _, layout := range noaaLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}

	return time.Time{}, errUnparseable
}

// FormatLocal renders a timestamp in the canonical display form used by the
// dashboard, in the given zone.
func FormatLocal(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("Jan 2, 2006 15:04")
}

// TruncateHourLocal converts t to the given zone and truncates it to the top
// of that local hour. Bucket boundaries are local-hour starts, not
// UTC-aligned.
func TruncateHourLocal(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), 0, 0, 0, loc)
}
