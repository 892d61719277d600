package model

import (
	"time"
)

// Registration statuses
const (
	RegistrationStatusRegistered = "registered"
	RegistrationStatusWaitlisted = "waitlisted"
	RegistrationStatusCancelled  = "cancelled"
	RegistrationStatusAttended   = "attended"
)

// Registration links a user to an event. At most one row exists per
// (event, user) pair; status changes reuse the row.
type Registration struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	EventID      uint       `gorm:"not null;index;uniqueIndex:idx_registration_event_user" json:"event_id"`
	UserID       uint       `gorm:"not null;index;uniqueIndex:idx_registration_event_user" json:"user_id"`
	Status       string     `gorm:"type:varchar(20);not null;default:'registered'" json:"status"`
	TeamID       *uint      `json:"team_id,omitempty"`
	RegisteredAt time.Time  `gorm:"autoCreateTime" json:"registered_at"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`

	// Relationships
	Event Event `gorm:"foreignKey:EventID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

// Active reports whether the registration occupies a slot
func (r *Registration) Active() bool {
	return r.Status != RegistrationStatusCancelled
}
