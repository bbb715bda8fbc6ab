package settings

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Preference is one persisted key-value pair.
type Preference struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"size:255;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}

// GormStore persists preferences in the local database so alert state
// survives restarts.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the preferences table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Preference{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) GetString(key, def string) (string, error) {
	var pref Preference
	err := s.db.First(&pref, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return pref.Value, nil
}

func (s *GormStore) SetString(key, value string) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Preference{Key: key, Value: value}).Error
}

func (s *GormStore) GetFloat(key string, def float64) (float64, error) {
	raw, err := s.GetString(key, "")
	if err != nil {
		return def, err
	}
	if raw == "" {
		return def, nil
	}
	v, parseErr := strconv.ParseFloat(raw, 64)
	if parseErr != nil {
		return def, nil
	}
	return v, nil
}

func (s *GormStore) SetFloat(key string, value float64) error {
	return s.SetString(key, strconv.FormatFloat(value, 'g', -1, 64))
}

func (s *GormStore) GetBool(key string, def bool) (bool, error) {
	raw, err := s.GetString(key, "")
	if err != nil {
		return def, err
	}
	if raw == "" {
		return def, nil
	}
	return raw == "true", nil
}

func (s *GormStore) SetBool(key string, value bool) error {
	return s.SetString(key, strconv.FormatBool(value))
}
