package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event lifecycle statuses
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusOngoing   = "ongoing"
	EventStatusArchived  = "archived"
)

// EventTypes is the fixed set of event categories
var EventTypes = []string{"fest", "workshop", "hackathon", "seminar", "competition", "cultural", "sports", "general"}

// EventStatuses is the forward-movable lifecycle (archived may revert to draft)
var EventStatuses = []string{EventStatusDraft, EventStatusPublished, EventStatusOngoing, EventStatusArchived}

// Event is the core entity: lifecycle, ownership, and the per-event
// module/theme composition stored as jsonb snapshots.
type Event struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	Title            string         `gorm:"not null" json:"title"`
	Slug             string         `gorm:"uniqueIndex;not null" json:"slug"` // immutable after creation
	Description      string         `gorm:"type:text" json:"description"`
	ShortDescription string         `gorm:"type:varchar(512)" json:"short_description"`
	EventType        string         `gorm:"type:varchar(20);not null;default:'general';index" json:"event_type"`
	Status           string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	OrganizerID      uint           `gorm:"not null;index" json:"organizer_id"`
	Department       string         `gorm:"type:varchar(100)" json:"department"`
	StartDate        *time.Time     `json:"start_date"`
	EndDate          *time.Time     `json:"end_date"`
	Venue            string         `gorm:"type:varchar(255)" json:"venue"`
	MaxParticipants  int            `gorm:"default:100" json:"max_participants"`
	CoverImage       string         `gorm:"type:varchar(512)" json:"cover_image,omitempty"`
	Tags             datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"tags"`

	// Theme snapshot copied from a preset (or generated), never a live reference
	ThemeConfig datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"theme_config,omitempty"`
	// Enabled module IDs (subset of the platform module registry)
	EnabledModules datatypes.JSON `gorm:"type:jsonb;default:'[\"registration\",\"schedule\",\"announcements\"]'" json:"enabled_modules"`
	// Per-module configuration keyed by module ID
	ModuleConfigs datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"module_configs,omitempty"`

	// Relationships
	Organizer     User               `gorm:"foreignKey:OrganizerID" json:"-"`
	Registrations []Registration     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Teams         []Team             `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Roles         []EventRole        `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Announcements []Announcement     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	ScheduleItems []ScheduleItem     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Polls         []VotePoll         `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Participation []ParticipationLog `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

// TagList decodes the jsonb tags column
func (e *Event) TagList() ([]string, error) {
	return decodeStringSlice(e.Tags)
}

// EnabledModuleIDs decodes the jsonb enabled_modules column
func (e *Event) EnabledModuleIDs() ([]string, error) {
	return decodeStringSlice(e.EnabledModules)
}

// ModuleConfigMap decodes the jsonb module_configs column
func (e *Event) ModuleConfigMap() (map[string]map[string]interface{}, error) {
	return decodeConfigMap(e.ModuleConfigs)
}

// IsAcceptingRegistrations reports whether the lifecycle state allows sign-ups
func (e *Event) IsAcceptingRegistrations() bool {
	return e.Status == EventStatusPublished || e.Status == EventStatusOngoing
}

// ValidEventType reports whether t is one of the fixed event categories
func ValidEventType(t string) bool {
	for _, v := range EventTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ValidEventStatus reports whether s is a known lifecycle status
func ValidEventStatus(s string) bool {
	for _, v := range EventStatuses {
		if v == s {
			return true
		}
	}
	return false
}
