package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywatchhq/skywatch/internal/feeds"
)

func TestEmptySlotsReturnErrNoData(t *testing.T) {
	m := NewMemory()

	_, _, err := m.Kp()
	assert.ErrorIs(t, err, ErrNoData)
	_, _, err = m.ISS()
	assert.ErrorIs(t, err, ErrNoData)
	_, _, err = m.NEO()
	assert.ErrorIs(t, err, ErrNoData)
}

func TestLastWriterWinsWithinFeed(t *testing.T) {
	m := NewMemory()
	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	m.SetKp([]feeds.KpReading{{TimeTag: "a", Kp: 1}}, t1)
	m.SetKp([]feeds.KpReading{{TimeTag: "b", Kp: 2}}, t2)

	readings, updated, err := m.Kp()
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, "b", readings[0].TimeTag)
	assert.Equal(t, t2, updated)
}

func TestSlotsAreIndependent(t *testing.T) {
	m := NewMemory()
	now := time.Now()

	m.SetISS(feeds.ISSReading{Latitude: 51.5}, now)

	// Filling one feed leaves the others empty.
	_, _, err := m.Kp()
	assert.ErrorIs(t, err, ErrNoData)

	iss, _, err := m.ISS()
	require.NoError(t, err)
	assert.Equal(t, 51.5, iss.Latitude)
}

func TestKpReturnsCopy(t *testing.T) {
	m := NewMemory()
	m.SetKp([]feeds.KpReading{{TimeTag: "a", Kp: 1}}, time.Now())

	readings, _, err := m.Kp()
	require.NoError(t, err)
	readings[0].Kp = 99

	again, _, err := m.Kp()
	require.NoError(t, err)
	assert.Equal(t, 1.0, again[0].Kp)
}

func TestConcurrentAccess(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.SetKp([]feeds.KpReading{{TimeTag: "t", Kp: 3}}, time.Now())
		}()
		go func() {
			defer wg.Done()
			_, _, _ = m.Kp()
		}()
	}
	wg.Wait()
}
