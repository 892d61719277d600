package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/campusflow/api/model"
	"github.com/campusflow/api/registry"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Registration errors
var (
	ErrAlreadyRegistered       = errors.New("already registered for this event")
	ErrRegistrationsClosed     = errors.New("event is not accepting registrations")
	ErrEventFull               = errors.New("event is full")
	ErrRegistrationNotFound    = errors.New("registration not found")
	ErrRegistrationNotEligible = errors.New("registration is not eligible for check-in")
)

// DefaultParticipationPoints is awarded on check-in when the event config
// does not override it
const DefaultParticipationPoints = 10

// RegistrationService owns the registration lifecycle: sign-up with capacity
// and waitlist handling, cancellation, and attendance check-in.
type RegistrationService struct {
	db *gorm.DB
}

// NewRegistrationService creates the registration service
func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// Register signs a user up for the event identified by slug. Capacity is
// checked inside a transaction holding a row lock on the event, so two
// concurrent sign-ups for the last slot cannot both land as registered.
// A cancelled row for the same pair is revived rather than duplicated.
// Returns ErrAlreadyRegistered when an active row already exists; callers
// can surface the existing row via GetForEvent.
func (s *RegistrationService) Register(slug string, userID uint) (*model.Registration, error) {
	var registration *model.Registration

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("slug = ?", slug).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if !event.IsAcceptingRegistrations() {
			return ErrRegistrationsClosed
		}

		var existing model.Registration
		err := tx.Where("event_id = ? AND user_id = ?", event.ID, userID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && existing.Active() {
			return ErrAlreadyRegistered
		}

		status, err := s.nextStatus(tx, &event)
		if err != nil {
			return err
		}

		if existing.ID != 0 {
			// revive the cancelled row in place
			existing.Status = status
			existing.CheckedInAt = nil
			existing.TeamID = nil
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			registration = &existing
			return nil
		}

		row := model.Registration{
			EventID: event.ID,
			UserID:  userID,
			Status:  status,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		registration = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registration, nil
}

// nextStatus decides registered vs waitlisted from the live active count,
// the event capacity, and the registration module's waitlist_enabled flag
func (s *RegistrationService) nextStatus(tx *gorm.DB, event *model.Event) (string, error) {
	var active int64
	err := tx.Model(&model.Registration{}).
		Where("event_id = ? AND status <> ?", event.ID, model.RegistrationStatusCancelled).
		Count(&active).Error
	if err != nil {
		return "", err
	}

	if event.MaxParticipants <= 0 || active < int64(event.MaxParticipants) {
		return model.RegistrationStatusRegistered, nil
	}

	configs, err := event.ModuleConfigMap()
	if err != nil {
		return "", err
	}
	if cfg, ok := configs[registry.ModuleRegistration]; ok {
		if enabled, ok := cfg["waitlist_enabled"].(bool); ok && enabled {
			return model.RegistrationStatusWaitlisted, nil
		}
	}
	return "", ErrEventFull
}

// Cancel marks the caller's registration cancelled. Cancelling a row that is
// already cancelled or absent is a no-op; the call is idempotent. Waitlisted
// users are not promoted when a slot frees up.
func (s *RegistrationService) Cancel(slug string, userID uint) error {
	var event model.Event
	if err := s.db.Select("id").Where("slug = ?", slug).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	return s.db.Model(&model.Registration{}).
		Where("event_id = ? AND user_id = ? AND status <> ?",
			event.ID, userID, model.RegistrationStatusCancelled).
		Update("status", model.RegistrationStatusCancelled).Error
}

// GetForEvent returns the user's registration row for an event, if any
func (s *RegistrationService) GetForEvent(slug string, userID uint) (*model.Registration, error) {
	var event model.Event
	if err := s.db.Select("id").Where("slug = ?", slug).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	var row model.Registration
	if err := s.db.Where("event_id = ? AND user_id = ?", event.ID, userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &row, nil
}

// CheckIn flips a registered user to attended, stamps the check-in time,
// writes a participation log entry, and bumps the user's engagement score.
// Only rows in the registered state are eligible.
func (s *RegistrationService) CheckIn(slug string, userID uint) (*model.Registration, error) {
	var registration *model.Registration

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := tx.Where("slug = ?", slug).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		var row model.Registration
		err := tx.Where("event_id = ? AND user_id = ?", event.ID, userID).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}
		if row.Status != model.RegistrationStatusRegistered {
			return ErrRegistrationNotEligible
		}

		now := time.Now()
		row.Status = model.RegistrationStatusAttended
		row.CheckedInAt = &now
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		points := DefaultParticipationPoints
		configs, err := event.ModuleConfigMap()
		if err != nil {
			return err
		}
		if cfg, ok := configs[registry.ModuleCheckin]; ok {
			if v, ok := cfg["points_per_checkin"].(float64); ok && v > 0 {
				points = int(v)
			}
		}

		entry := model.ParticipationLog{
			UserID:       userID,
			EventID:      event.ID,
			AcademicYear: AcademicYear(now),
			EventType:    event.EventType,
			PointsEarned: points,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		err = tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("engagement_score", gorm.Expr("engagement_score + ?", points)).Error
		if err != nil {
			return err
		}

		registration = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registration, nil
}

// AcademicYear formats the Indian academic year (July to June) containing t,
// e.g. "2025-26" for any date from July 2025 through June 2026
func AcademicYear(t time.Time) string {
	year := t.Year()
	if t.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// EventRegistrationRow is a registration joined with the registrant's details
type EventRegistrationRow struct {
	ID           uint       `json:"id"`
	UserID       uint       `json:"user_id"`
	Status       string     `json:"status"`
	RegisteredAt time.Time  `json:"registered_at"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	UserName     string     `json:"user_name"`
	UserEmail    string     `json:"user_email"`
	Department   string     `json:"department"`
}

// ListForEvent returns every registration for an event with registrant
// details, newest first
func (s *RegistrationService) ListForEvent(slug string) ([]EventRegistrationRow, error) {
	var event model.Event
	if err := s.db.Select("id").Where("slug = ?", slug).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	rows := []EventRegistrationRow{}
	err := s.db.Model(&model.Registration{}).
		Select("registrations.id, registrations.user_id, registrations.status, "+
			"registrations.registered_at, registrations.checked_in_at, "+
			"users.name AS user_name, users.email AS user_email, users.department").
		Joins("JOIN users ON users.id = registrations.user_id").
		Where("registrations.event_id = ?", event.ID).
		Order("registrations.registered_at DESC").
		Scan(&rows).Error
	return rows, err
}

// UserRegistrationRow is a registration joined with its event's details
type UserRegistrationRow struct {
	ID           uint       `json:"id"`
	EventID      uint       `json:"event_id"`
	Status       string     `json:"status"`
	RegisteredAt time.Time  `json:"registered_at"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	EventTitle   string     `json:"event_title"`
	EventSlug    string     `json:"event_slug"`
	EventType    string     `json:"event_type"`
	StartDate    *time.Time `json:"start_date"`
	EventStatus  string     `json:"event_status"`
}

// ListForUser returns every registration a user holds with event details,
// newest first
func (s *RegistrationService) ListForUser(userID uint) ([]UserRegistrationRow, error) {
	rows := []UserRegistrationRow{}
	err := s.db.Model(&model.Registration{}).
		Select("registrations.id, registrations.event_id, registrations.status, "+
			"registrations.registered_at, registrations.checked_in_at, "+
			"events.title AS event_title, events.slug AS event_slug, "+
			"events.event_type, events.start_date, events.status AS event_status").
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("registrations.user_id = ?", userID).
		Order("registrations.registered_at DESC").
		Scan(&rows).Error
	return rows, err
}
