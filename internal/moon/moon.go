// Package moon computes the lunar phase closed-form from a fixed reference
// new-moon epoch; no ephemeris service is consulted.
package moon

import (
	"math"
	"time"
)

const (
	// SynodicMonth is the mean length of a lunation in days.
	SynodicMonth = 29.530588

	// fullMoonAge is the reference age, in days into the cycle, at which
	// the moon is considered full.
	fullMoonAge = 14.8

	hoursPerDay = 24
)

// referenceNewMoon is the fixed epoch all ages are measured from
// (the first new moon of 2000). Changing it would change every computed age.
var referenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// Snapshot is the lunar payload rendered on the dashboard.
type Snapshot struct {
	AgeDays           float64   `json:"age_days"`
	Phase             string    `json:"phase"`
	IlluminationPct   float64   `json:"illumination_pct"`
	DaysUntilFullMoon float64   `json:"days_until_full_moon"`
	DaysUntilNewMoon  float64   `json:"days_until_new_moon"`
	ComputedAt        time.Time `json:"computed_at"`
}

// Age returns the days elapsed in the current lunation at time t.
func Age(t time.Time) float64 {
	days := t.Sub(referenceNewMoon).Hours() / hoursPerDay
	age := math.Mod(days, SynodicMonth)
	if age < 0 {
		age += SynodicMonth
	}
	return age
}

// Illumination returns the lit fraction of the disc as a percentage,
// approximated by the cosine of the phase angle.
func Illumination(age float64) float64 {
	return (1 - math.Cos(2*math.Pi*age/SynodicMonth)) / 2 * 100
}

// DaysUntilFull returns the days remaining until the next full moon,
// wrapping into the next cycle once the current age is past the full-moon
// reference point.
func DaysUntilFull(age float64) float64 {
	if age <= fullMoonAge {
		return fullMoonAge - age
	}
	return (SynodicMonth - age) + fullMoonAge
}

// DaysUntilNew returns the days remaining in the current lunation.
func DaysUntilNew(age float64) float64 {
	return SynodicMonth - age
}

// Phase maps an age to its display name using equal eighths of the cycle.
func Phase(age float64) string {
	eighth := SynodicMonth / 8
	switch {
	case age < eighth/2:
		return "new moon"
	case age < eighth*1.5:
		return "waxing crescent"
	case age < eighth*2.5:
		return "first quarter"
	case age < eighth*3.5:
		return "waxing gibbous"
	case age < eighth*4.5:
		return "full moon"
	case age < eighth*5.5:
		return "waning gibbous"
	case age < eighth*6.5:
		return "last quarter"
	case age < eighth*7.5:
		return "waning crescent"
	default:
		return "new moon"
	}
}

// At computes the full snapshot for time t.
func At(t time.Time) Snapshot {
	age := Age(t)
	return Snapshot{
		AgeDays:           age,
		Phase:             Phase(age),
		IlluminationPct:   Illumination(age),
		DaysUntilFullMoon: DaysUntilFull(age),
		DaysUntilNewMoon:  DaysUntilNew(age),
		ComputedAt:        t.UTC(),
	}
}
