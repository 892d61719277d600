package services

import (
	"errors"
	"strings"
	"time"

	"github.com/campusflow/api/model"
	"gorm.io/gorm"
)

// Content errors
var (
	ErrPollNotFound     = errors.New("poll not found")
	ErrPollClosed       = errors.New("poll is not active")
	ErrInvalidOption    = errors.New("option index out of range")
	ErrAlreadyVoted     = errors.New("already voted in this poll")
	ErrRoleAlreadyHeld  = errors.New("user already holds a role for this event")
	ErrScheduleBadTimes = errors.New("end time must be after start time")
)

// ContentService owns the per-event content modules: announcements, the
// schedule, polls with their votes, and role assignments
type ContentService struct {
	db *gorm.DB
}

// NewContentService creates the content service
func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

func (s *ContentService) eventBySlug(slug string) (*model.Event, error) {
	var event model.Event
	if err := s.db.Where("slug = ?", slug).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// CreateAnnouncementInput is the announcement creation payload
type CreateAnnouncementInput struct {
	Title    string `json:"title" validate:"required,min=2,max=255"`
	Body     string `json:"body" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

// CreateAnnouncement posts an announcement to an event. Announcements are
// immutable once created.
func (s *ContentService) CreateAnnouncement(slug string, input CreateAnnouncementInput) (*model.Announcement, error) {
	event, err := s.eventBySlug(slug)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	if !model.ValidPriority(priority) {
		return nil, errors.New("invalid priority")
	}

	row := model.Announcement{
		EventID:  event.ID,
		Title:    strings.TrimSpace(input.Title),
		Body:     input.Body,
		Priority: priority,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateScheduleItemInput is the schedule item creation payload
type CreateScheduleItemInput struct {
	Title       string     `json:"title" validate:"required,min=2,max=255"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time" validate:"required"`
	EndTime     *time.Time `json:"end_time"`
	Venue       string     `json:"venue"`
	Speaker     string     `json:"speaker"`
	Track       string     `json:"track"`
	SortOrder   int        `json:"sort_order"`
}

// CreateScheduleItem adds a schedule entry to an event
func (s *ContentService) CreateScheduleItem(slug string, input CreateScheduleItemInput) (*model.ScheduleItem, error) {
	event, err := s.eventBySlug(slug)
	if err != nil {
		return nil, err
	}

	if input.EndTime != nil && !input.EndTime.After(input.StartTime) {
		return nil, ErrScheduleBadTimes
	}

	row := model.ScheduleItem{
		EventID:     event.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Venue:       input.Venue,
		Speaker:     input.Speaker,
		Track:       input.Track,
		SortOrder:   input.SortOrder,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreatePollInput is the poll creation payload
type CreatePollInput struct {
	Question string   `json:"question" validate:"required,min=2,max=500"`
	Options  []string `json:"options" validate:"required,min=2,dive,required"`
}

// CreatePoll opens a poll on an event
func (s *ContentService) CreatePoll(slug string, input CreatePollInput) (*model.VotePoll, error) {
	event, err := s.eventBySlug(slug)
	if err != nil {
		return nil, err
	}

	options, err := model.EncodeJSON(input.Options)
	if err != nil {
		return nil, err
	}

	row := model.VotePoll{
		EventID:  event.ID,
		Question: strings.TrimSpace(input.Question),
		Options:  options,
		IsActive: true,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Vote records a user's choice in a poll. The poll must belong to the event
// named by slug. One vote per user per poll; the unique index backs up the
// pre-check under concurrency.
func (s *ContentService) Vote(slug string, pollID uint, userID uint, optionIndex int) (*model.Vote, error) {
	event, err := s.eventBySlug(slug)
	if err != nil {
		return nil, err
	}

	var poll model.VotePoll
	if err := s.db.Where("id = ? AND event_id = ?", pollID, event.ID).First(&poll).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	if !poll.IsActive {
		return nil, ErrPollClosed
	}

	options, err := poll.OptionList()
	if err != nil {
		return nil, err
	}
	if optionIndex < 0 || optionIndex >= len(options) {
		return nil, ErrInvalidOption
	}

	var existing model.Vote
	err = s.db.Where("poll_id = ? AND user_id = ?", pollID, userID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyVoted
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := model.Vote{
		PollID:      pollID,
		UserID:      userID,
		OptionIndex: optionIndex,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ClosePoll deactivates a poll on the event named by slug; votes stop being
// accepted but the tally stays visible
func (s *ContentService) ClosePoll(slug string, pollID uint) error {
	event, err := s.eventBySlug(slug)
	if err != nil {
		return err
	}

	result := s.db.Model(&model.VotePoll{}).
		Where("id = ? AND event_id = ?", pollID, event.ID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPollNotFound
	}
	return nil
}

// AssignRoleInput is the role assignment payload
type AssignRoleInput struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=head coordinator volunteer"`
}

// AssignRole gives a user an organizational role on an event. A user holds
// at most one role per event.
func (s *ContentService) AssignRole(slug string, input AssignRoleInput) (*model.EventRole, error) {
	event, err := s.eventBySlug(slug)
	if err != nil {
		return nil, err
	}

	if !model.ValidEventRole(input.Role) {
		return nil, errors.New("invalid event role")
	}

	var user model.User
	if err := s.db.First(&user, input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var existing model.EventRole
	err = s.db.Where("event_id = ? AND user_id = ?", event.ID, input.UserID).First(&existing).Error
	if err == nil {
		return nil, ErrRoleAlreadyHeld
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := model.EventRole{
		EventID: event.ID,
		UserID:  input.UserID,
		Role:    input.Role,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
