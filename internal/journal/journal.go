// Package journal stores the per-user observation journal.
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound indicates a missing journal entry.
var ErrNotFound = errors.New("journal: entry not found")

// ValidationError carries a human-readable rejection reason for a bad entry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "journal: " + e.Reason
}

// Entry is one user-authored observation record. The identifier may be
// assigned by the caller; a missing one gets a generated UUID. Entries live
// and die by user action, independent of the feed-refresh lifecycle.
type Entry struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	UserID     uint       `gorm:"index;not null" json:"-"`
	Title      string     `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Notes      string     `gorm:"type:text" json:"notes" validate:"max=10000"`
	Location   string     `gorm:"size:200" json:"location,omitempty"`
	Weather    string     `gorm:"size:200" json:"weather,omitempty"`
	SkyIndex   *float64   `json:"sky_index,omitempty" validate:"omitempty,gte=0,lte=9"`
	PhotoRef   string     `gorm:"size:500" json:"photo_ref,omitempty" validate:"omitempty,max=500"`
	ObservedAt *time.Time `json:"observed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Service provides journal CRUD scoped to the owning user.
type Service struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewService migrates the entries table and returns the service.
func NewService(db *gorm.DB) (*Service, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("journal: migrate: %w", err)
	}
	return &Service{db: db, validate: validator.New()}, nil
}

// Create validates and stores a new entry for the user. A caller-assigned
// ID is kept; an empty one is generated.
func (s *Service) Create(userID uint, entry *Entry) error {
	if err := s.check(entry); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.UserID = userID
	return s.db.Create(entry).Error
}

// Get returns the user's entry by id.
func (s *Service) Get(userID uint, id string) (*Entry, error) {
	var entry Entry
	err := s.db.First(&entry, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns the user's entries, newest first.
func (s *Service) List(userID uint) ([]Entry, error) {
	var entries []Entry
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Update validates and replaces the settable fields of the user's entry.
func (s *Service) Update(userID uint, id string, updated *Entry) (*Entry, error) {
	if err := s.check(updated); err != nil {
		return nil, err
	}
	entry, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	entry.Title = updated.Title
	entry.Notes = updated.Notes
	entry.Location = updated.Location
	entry.Weather = updated.Weather
	entry.SkyIndex = updated.SkyIndex
	entry.PhotoRef = updated.PhotoRef
	entry.ObservedAt = updated.ObservedAt

	if err := s.db.Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes the user's entry by id.
func (s *Service) Delete(userID uint, id string) error {
	res := s.db.Delete(&Entry{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// check translates validator failures into a readable rejection.
func (s *Service) check(entry *Entry) error {
	err := s.validate.Struct(entry)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) && len(invalid) > 0 {
		first := invalid[0]
		switch first.Tag() {
		case "required":
			return &ValidationError{Reason: fmt.Sprintf("%s is required", first.Field())}
		case "max":
			return &ValidationError{Reason: fmt.Sprintf("%s is too long", first.Field())}
		default:
			return &ValidationError{Reason: fmt.Sprintf("%s is invalid", first.Field())}
		}
	}
	return &ValidationError{Reason: err.Error()}
}
