// Package settings is the lightweight key-value preference store: display
// toggles, alert flags, the last-alerted value, and the home location.
package settings

import (
	"strconv"
	"sync"
)

// Well-known preference keys.
const (
	KeyAlertsEnabled = "alerts_enabled"
	KeyLastAlerted   = "last_alerted_kp"
	KeyHomeLocation  = "home_location"
	KeyShowISSCard   = "show_iss_card"
	KeyShowMoonCard  = "show_moon_card"
)

// LastAlertedSentinel marks "no alert recorded".
const LastAlertedSentinel = -1

// Store reads and writes preferences. Implementations must be safe for
// concurrent use.
type Store interface {
	GetString(key, def string) (string, error)
	SetString(key, value string) error
	GetFloat(key string, def float64) (float64, error)
	SetFloat(key string, value float64) error
	GetBool(key string, def bool) (bool, error)
	SetBool(key string, value bool) error
}

// Memory is an in-process Store used in tests and as a fallback when no
// database is configured.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) GetString(key, def string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) SetString(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) GetFloat(key string, def float64) (float64, error) {
	raw, err := m.GetString(key, "")
	if err != nil || raw == "" {
		return def, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def, nil
	}
	return v, nil
}

func (m *Memory) SetFloat(key string, value float64) error {
	return m.SetString(key, strconv.FormatFloat(value, 'g', -1, 64))
}

func (m *Memory) GetBool(key string, def bool) (bool, error) {
	raw, err := m.GetString(key, "")
	if err != nil || raw == "" {
		return def, err
	}
	return raw == "true", nil
}

func (m *Memory) SetBool(key string, value bool) error {
	return m.SetString(key, strconv.FormatBool(value))
}
