package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent   = "student"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);default:'student'" json:"role"` // student, organizer, admin
	Department   string         `gorm:"type:varchar(100)" json:"department"`
	Year         int            `gorm:"default:0" json:"year"`
	Interests    datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"interests"` // array of interest strings
	AvatarURL    string         `gorm:"type:varchar(512)" json:"avatar_url,omitempty"`
	// Cumulative engagement metric, adjusted by the check-in flow
	EngagementScore int `gorm:"default:0" json:"engagement_score"`
	TokenVersion    int `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	Registrations []Registration     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	EventRoles    []EventRole        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Participation []ParticipationLog `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RevokedTokens []RevokedToken     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// InterestList decodes the jsonb interests column
func (u *User) InterestList() ([]string, error) {
	return decodeStringSlice(u.Interests)
}
