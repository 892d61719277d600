package model

import (
	"time"
)

// ScheduleItem is one agenda entry of an event, ordered by SortOrder.
type ScheduleItem struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EventID     uint       `gorm:"not null;index" json:"event_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	StartTime   time.Time  `gorm:"not null" json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Venue       string     `gorm:"type:varchar(255)" json:"venue"`
	Speaker     string     `gorm:"type:varchar(255)" json:"speaker"`
	Track       string     `gorm:"type:varchar(100)" json:"track,omitempty"`
	SortOrder   int        `gorm:"default:0;index" json:"sort_order"`

	Event Event `gorm:"foreignKey:EventID" json:"-"`
}
