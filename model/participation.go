package model

// ParticipationLog is the durable historical record of a user's involvement
// in an event, partitioned by academic year. Rows persist independently of
// the event lifecycle: an archived event's entries remain queryable.
type ParticipationLog struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	UserID            uint   `gorm:"not null;index" json:"user_id"`
	EventID           uint   `gorm:"not null;index" json:"event_id"`
	AcademicYear      string `gorm:"type:varchar(10);not null;index" json:"academic_year"` // e.g. "2025-26"
	EventType         string `gorm:"type:varchar(20)" json:"event_type"`
	Role              string `gorm:"type:varchar(20);default:'participant'" json:"role"`
	PointsEarned      int    `gorm:"default:0" json:"points_earned"`
	CertificateIssued bool   `gorm:"default:false" json:"certificate_issued"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Event Event `gorm:"foreignKey:EventID" json:"-"`
}
