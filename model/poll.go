package model

import (
	"time"

	"gorm.io/datatypes"
)

// VotePoll belongs to an event and carries an ordered option list.
type VotePoll struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	EventID   uint           `gorm:"not null;index" json:"event_id"`
	Question  string         `gorm:"not null" json:"question"`
	Options   datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"options"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`

	Event Event  `gorm:"foreignKey:EventID" json:"-"`
	Votes []Vote `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE" json:"-"`
}

// OptionList decodes the jsonb options column
func (p *VotePoll) OptionList() ([]string, error) {
	return decodeStringSlice(p.Options)
}

// Vote selects one option index of a poll. Unique per (poll, user) and
// unaltered once cast.
type Vote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PollID      uint      `gorm:"not null;index;uniqueIndex:idx_vote_poll_user" json:"poll_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_vote_poll_user" json:"user_id"`
	OptionIndex int       `gorm:"not null" json:"option_index"`
	VotedAt     time.Time `gorm:"autoCreateTime" json:"voted_at"`

	Poll VotePoll `gorm:"foreignKey:PollID" json:"-"`
	User User     `gorm:"foreignKey:UserID" json:"-"`
}
