package model

import (
	"time"
)

// Announcement priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Announcement is an immutable update posted to an event. There is no
// edit or delete path once a row exists.
type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Priority  string    `gorm:"type:varchar(10);default:'normal'" json:"priority"`

	Event Event `gorm:"foreignKey:EventID" json:"-"`
}

// ValidPriority reports whether p is a known announcement priority
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
