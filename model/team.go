package model

import (
	"time"
)

// Team belongs to one event and has one leader, who must also be a member.
type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	Name      string    `gorm:"not null" json:"name"`
	LeaderID  uint      `gorm:"not null" json:"leader_id"`
	MaxSize   int       `gorm:"default:4" json:"max_size"`

	// Relationships
	Event   Event        `gorm:"foreignKey:EventID" json:"-"`
	Leader  User         `gorm:"foreignKey:LeaderID" json:"-"`
	Members []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

// TeamMember is the team roster row
type TeamMember struct {
	TeamID   uint      `gorm:"primaryKey" json:"team_id"`
	UserID   uint      `gorm:"primaryKey" json:"user_id"`
	Role     string    `gorm:"type:varchar(20);default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	// Relationships
	Team Team `gorm:"foreignKey:TeamID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}
