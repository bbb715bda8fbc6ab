// Package asteroid classifies near-earth objects and picks the one featured
// on the dashboard.
package asteroid

import (
	"time"

	"github.com/skywatchhq/skywatch/internal/feeds"
)

// Classification constants, fixed at design time.
const (
	// hazardDiameterFloorM / hazardDistanceCeilingAu follow the usual
	// "potentially hazardous" definition: at least 140 m across and
	// approaching within 0.05 au.
	hazardDiameterFloorM    = 140.0
	hazardDistanceCeilingAu = 0.05

	// The looser bar for an object still worth surfacing.
	meaningfulDiameterFloorM    = 50.0
	meaningfulDistanceCeilingAu = 0.2

	// featuredWindow is the forward-looking window for upcoming approaches.
	featuredWindow = 7 * 24 * time.Hour
)

// IsHazardous reports whether the object meets both the size floor and the
// distance ceiling.
func IsHazardous(a feeds.Asteroid) bool {
	return a.AvgDiameterM() >= hazardDiameterFloorM && a.MissDistanceAu <= hazardDistanceCeilingAu
}

// isMeaningful is the looser size/distance bar used by the second tier.
func isMeaningful(a feeds.Asteroid) bool {
	return a.AvgDiameterM() >= meaningfulDiameterFloorM && a.MissDistanceAu <= meaningfulDistanceCeilingAu
}

// Featured selects the single object for prominent display. Tiers, each
// short-circuiting to the next only when its candidate set is empty:
//  1. closest hazardous object approaching within the window
//  2. closest object in the window meeting the looser bar
//  3. closest object in the window by any measure
//  4. closest object overall, window ignored
//
// Returns false only when the input list is empty.
func Featured(objects []feeds.Asteroid, now time.Time) (feeds.Asteroid, bool) {
	if len(objects) == 0 {
		return feeds.Asteroid{}, false
	}

	windowEnd := now.Add(featuredWindow)
	var upcoming []feeds.Asteroid
	for _, a := range objects {
		if !a.ApproachAt.Before(now) && !a.ApproachAt.After(windowEnd) {
			upcoming = append(upcoming, a)
		}
	}

	if pick, ok := closest(upcoming, IsHazardous); ok {
		return pick, true
	}
	if pick, ok := closest(upcoming, isMeaningful); ok {
		return pick, true
	}
	if pick, ok := closest(upcoming, nil); ok {
		return pick, true
	}
	pick, _ := closest(objects, nil)
	return pick, true
}

// closest returns the object with the smallest miss distance among those
// accepted by the filter. A nil filter accepts everything.
func closest(objects []feeds.Asteroid, filter func(feeds.Asteroid) bool) (feeds.Asteroid, bool) {
	var best feeds.Asteroid
	found := false
	for _, a := range objects {
		if filter != nil && !filter(a) {
			continue
		}
		if !found || a.MissDistanceAu < best.MissDistanceAu {
			best = a
			found = true
		}
	}
	return best, found
}
