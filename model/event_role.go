package model

import (
	"time"
)

// Event role names
const (
	EventRoleHead        = "head"
	EventRoleCoordinator = "coordinator"
	EventRoleVolunteer   = "volunteer"
)

// EventRole assigns a user to help run an event. Unique per (event, user).
type EventRole struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EventID    uint      `gorm:"not null;index;uniqueIndex:idx_event_role_event_user" json:"event_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_event_role_event_user" json:"user_id"`
	Role       string    `gorm:"type:varchar(20);not null" json:"role"` // head, coordinator, volunteer
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`

	// Relationships
	Event Event `gorm:"foreignKey:EventID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

// ValidEventRole reports whether r is an assignable event role
func ValidEventRole(r string) bool {
	return r == EventRoleHead || r == EventRoleCoordinator || r == EventRoleVolunteer
}
