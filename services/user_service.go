package services

import (
	"errors"
	"strings"

	"github.com/campusflow/api/model"
	"gorm.io/gorm"
)

// User errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already in use")
	ErrNoProfileData = errors.New("no profile fields provided")
)

// UserService owns user lookup and profile management
type UserService struct {
	db *gorm.DB
}

// NewUserService creates the user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetByID loads a user by primary key
func (s *UserService) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail loads a user by email, case-insensitively
func (s *UserService) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := s.db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserFilter narrows the admin user listing
type UserFilter struct {
	Role       string
	Department string
	Search     string
}

// List returns users matching the filter, newest first
func (s *UserService) List(filter UserFilter) ([]model.User, error) {
	query := s.db.Model(&model.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	users := []model.User{}
	err := query.Order("created_at DESC").Find(&users).Error
	return users, err
}

// ProfileUpdate carries the patchable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name       *string   `json:"name"`
	Department *string   `json:"department"`
	Year       *int      `json:"year"`
	Interests  *[]string `json:"interests"`
	AvatarURL  *string   `json:"avatar_url"`
}

// UpdateProfile applies a partial profile update and returns the fresh user
func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	updates := map[string]interface{}{}

	if update.Name != nil {
		updates["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Department != nil {
		updates["department"] = strings.TrimSpace(*update.Department)
	}
	if update.Year != nil {
		updates["year"] = *update.Year
	}
	if update.Interests != nil {
		encoded, err := model.EncodeJSON(*update.Interests)
		if err != nil {
			return nil, err
		}
		updates["interests"] = encoded
	}
	if update.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*update.AvatarURL)
	}

	if len(updates) == 0 {
		return nil, ErrNoProfileData
	}

	result := s.db.Model(&model.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	return s.GetByID(userID)
}

// ParticipationRow is a participation log entry joined with its event
type ParticipationRow struct {
	ID                uint   `json:"id"`
	EventID           uint   `json:"event_id"`
	AcademicYear      string `json:"academic_year"`
	EventType         string `json:"event_type"`
	Role              string `json:"role"`
	PointsEarned      int    `json:"points_earned"`
	CertificateIssued bool   `json:"certificate_issued"`
	EventTitle        string `json:"event_title"`
	EventSlug         string `json:"event_slug"`
}

// ParticipationHistory returns a user's participation log, optionally
// narrowed to one academic year, newest entries first
func (s *UserService) ParticipationHistory(userID uint, academicYear string) ([]ParticipationRow, error) {
	query := s.db.Model(&model.ParticipationLog{}).
		Select("participation_logs.id, participation_logs.event_id, "+
			"participation_logs.academic_year, participation_logs.event_type, "+
			"participation_logs.role, participation_logs.points_earned, "+
			"participation_logs.certificate_issued, "+
			"events.title AS event_title, events.slug AS event_slug").
		Joins("JOIN events ON events.id = participation_logs.event_id").
		Where("participation_logs.user_id = ?", userID)

	if academicYear != "" {
		query = query.Where("participation_logs.academic_year = ?", academicYear)
	}

	rows := []ParticipationRow{}
	err := query.Order("participation_logs.id DESC").Scan(&rows).Error
	return rows, err
}
