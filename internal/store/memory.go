// Package store holds the latest fetched readings, one owned slot per feed.
// Slots are guarded independently: a writer for one feed never contends with
// or waits on another feed, so readers may observe a state where some feeds
// have refreshed and others have not. That window is intended.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/skywatchhq/skywatch/internal/feeds"
)

// ErrNoData is returned when a feed slot has never been filled.
var ErrNoData = errors.New("store: no data for feed")

// kpSlot owns the planetary K-index reading list.
type kpSlot struct {
	mu        sync.RWMutex
	readings  []feeds.KpReading
	updatedAt time.Time
}

// issSlot owns the latest station telemetry sample.
type issSlot struct {
	mu        sync.RWMutex
	reading   feeds.ISSReading
	filled    bool
	updatedAt time.Time
}

// neoSlot owns the near-earth object list.
type neoSlot struct {
	mu        sync.RWMutex
	objects   []feeds.Asteroid
	updatedAt time.Time
}

// Memory is the in-process cache of the latest reading per feed. Each write
// replaces the slot wholesale; newest fetch always supersedes.
type Memory struct {
	kp  kpSlot
	iss issSlot
	neo neoSlot
}

// NewMemory creates an empty cache.
func NewMemory() *Memory {
	return &Memory{}
}

// SetKp replaces the K-index reading list.
func (m *Memory) SetKp(readings []feeds.KpReading, at time.Time) {
	m.kp.mu.Lock()
	defer m.kp.mu.Unlock()
	m.kp.readings = readings
	m.kp.updatedAt = at
}

// Kp returns the cached K-index readings and the time of the fetch that
// produced them.
func (m *Memory) Kp() ([]feeds.KpReading, time.Time, error) {
	m.kp.mu.RLock()
	defer m.kp.mu.RUnlock()
	if m.kp.readings == nil {
		return nil, time.Time{}, ErrNoData
	}
	out := make([]feeds.KpReading, len(m.kp.readings))
	copy(out, m.kp.readings)
	return out, m.kp.updatedAt, nil
}

// SetISS replaces the station telemetry sample.
func (m *Memory) SetISS(r feeds.ISSReading, at time.Time) {
	m.iss.mu.Lock()
	defer m.iss.mu.Unlock()
	m.iss.reading = r
	m.iss.filled = true
	m.iss.updatedAt = at
}

// ISS returns the cached telemetry sample.
func (m *Memory) ISS() (feeds.ISSReading, time.Time, error) {
	m.iss.mu.RLock()
	defer m.iss.mu.RUnlock()
	if !m.iss.filled {
		return feeds.ISSReading{}, time.Time{}, ErrNoData
	}
	return m.iss.reading, m.iss.updatedAt, nil
}

// SetNEO replaces the near-earth object list.
func (m *Memory) SetNEO(objects []feeds.Asteroid, at time.Time) {
	m.neo.mu.Lock()
	defer m.neo.mu.Unlock()
	m.neo.objects = objects
	m.neo.updatedAt = at
}

// NEO returns the cached near-earth objects.
func (m *Memory) NEO() ([]feeds.Asteroid, time.Time, error) {
	m.neo.mu.RLock()
	defer m.neo.mu.RUnlock()
	if m.neo.objects == nil {
		return nil, time.Time{}, ErrNoData
	}
	out := make([]feeds.Asteroid, len(m.neo.objects))
	copy(out, m.neo.objects)
	return out, m.neo.updatedAt, nil
}
