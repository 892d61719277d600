package services

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/campusflow/api/model"
	"github.com/campusflow/api/registry"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidTheme  = errors.New("theme does not satisfy the required shape")
	ErrNoUpdates     = errors.New("no valid fields to update")
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// MakeSlug derives the immutable event slug from the title and the creation
// instant. The base-36 suffix keeps slugs globally unique across events with
// identical titles.
func MakeSlug(title string, now time.Time) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	suffix := strconv.FormatInt(now.UnixMilli(), 36)
	if s == "" {
		return suffix
	}
	return s + "-" + suffix
}

// EventService owns event lifecycle operations
type EventService struct {
	db  *gorm.DB
	reg *registry.Registry
}

// NewEventService creates a new event service
func NewEventService(db *gorm.DB, reg *registry.Registry) *EventService {
	return &EventService{db: db, reg: reg}
}

// CreateEventInput carries the organizer-supplied event fields
type CreateEventInput struct {
	Title            string                            `json:"title" validate:"required,min=3,max=255"`
	Description      string                            `json:"description"`
	ShortDescription string                            `json:"short_description" validate:"omitempty,max=512"`
	EventType        string                            `json:"event_type"`
	Department       string                            `json:"department"`
	StartDate        *time.Time                        `json:"start_date"`
	EndDate          *time.Time                        `json:"end_date"`
	Venue            string                            `json:"venue"`
	MaxParticipants  int                               `json:"max_participants" validate:"omitempty,min=1"`
	Tags             []string                          `json:"tags"`
	ThemeConfig      json.RawMessage                   `json:"theme_config"`
	EnabledModules   []string                          `json:"enabled_modules"`
	ModuleConfigs    map[string]map[string]interface{} `json:"module_configs"`
}

// Create inserts the event and assigns its creator the head role in one
// transaction.
func (s *EventService) Create(organizerID uint, in CreateEventInput) (*model.Event, error) {
	if in.EventType == "" {
		in.EventType = "general"
	}
	if !model.ValidEventType(in.EventType) {
		return nil, errors.New("invalid event type")
	}
	if in.MaxParticipants == 0 {
		in.MaxParticipants = 100
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
	if in.EnabledModules == nil {
		in.EnabledModules = registry.DefaultEnabledModuleIDs()
	}
	if in.ModuleConfigs == nil {
		in.ModuleConfigs = map[string]map[string]interface{}{}
	}

	// Events store a theme snapshot. When the organizer supplies one (a
	// preset copy or a generated theme) its full shape is validated before
	// it is stored; otherwise the default preset is snapshotted.
	theme, err := s.resolveTheme(in.ThemeConfig)
	if err != nil {
		return nil, err
	}

	themeJSON, err := model.EncodeJSON(theme)
	if err != nil {
		return nil, err
	}
	tags, err := model.EncodeJSON(in.Tags)
	if err != nil {
		return nil, err
	}
	modules, err := model.EncodeJSON(in.EnabledModules)
	if err != nil {
		return nil, err
	}
	configs, err := model.EncodeJSON(in.ModuleConfigs)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		Title:            in.Title,
		Slug:             MakeSlug(in.Title, time.Now()),
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		EventType:        in.EventType,
		Status:           model.EventStatusDraft,
		OrganizerID:      organizerID,
		Department:       in.Department,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		Venue:            in.Venue,
		MaxParticipants:  in.MaxParticipants,
		Tags:             tags,
		ThemeConfig:      themeJSON,
		EnabledModules:   modules,
		ModuleConfigs:    configs,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		headRole := &model.EventRole{
			EventID: event.ID,
			UserID:  organizerID,
			Role:    model.EventRoleHead,
		}
		return tx.Create(headRole).Error
	})
	if err != nil {
		return nil, err
	}

	return event, nil
}

func (s *EventService) resolveTheme(raw json.RawMessage) (registry.Theme, error) {
	if len(raw) == 0 || string(raw) == "{}" || string(raw) == "null" {
		theme, _ := s.reg.Theme("default")
		return theme, nil
	}
	theme, err := registry.ParseTheme(raw)
	if err != nil {
		return registry.Theme{}, ErrInvalidTheme
	}
	return theme, nil
}

// UpdateEventInput is a patch: nil fields are left untouched. Slug is
// intentionally absent; it is immutable after creation.
type UpdateEventInput struct {
	Title            *string                           `json:"title"`
	Description      *string                           `json:"description"`
	ShortDescription *string                           `json:"short_description"`
	EventType        *string                           `json:"event_type"`
	Status           *string                           `json:"status"`
	Department       *string                           `json:"department"`
	StartDate        *time.Time                        `json:"start_date"`
	EndDate          *time.Time                        `json:"end_date"`
	Venue            *string                           `json:"venue"`
	MaxParticipants  *int                              `json:"max_participants"`
	CoverImage       *string                           `json:"cover_image"`
	Tags             []string                          `json:"tags"`
	ThemeConfig      json.RawMessage                   `json:"theme_config"`
	EnabledModules   []string                          `json:"enabled_modules"`
	ModuleConfigs    map[string]map[string]interface{} `json:"module_configs"`
}

// Update applies a partial update to the event identified by slug
func (s *EventService) Update(slug string, in UpdateEventInput) (*model.Event, error) {
	var event model.Event
	if err := s.db.Where("slug = ?", slug).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.ShortDescription != nil {
		updates["short_description"] = *in.ShortDescription
	}
	if in.EventType != nil {
		if !model.ValidEventType(*in.EventType) {
			return nil, errors.New("invalid event type")
		}
		updates["event_type"] = *in.EventType
	}
	if in.Status != nil {
		if !model.ValidEventStatus(*in.Status) {
			return nil, errors.New("invalid event status")
		}
		updates["status"] = *in.Status
	}
	if in.Department != nil {
		updates["department"] = *in.Department
	}
	if in.StartDate != nil {
		updates["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		updates["end_date"] = *in.EndDate
	}
	if in.Venue != nil {
		updates["venue"] = *in.Venue
	}
	if in.MaxParticipants != nil {
		updates["max_participants"] = *in.MaxParticipants
	}
	if in.CoverImage != nil {
		updates["cover_image"] = *in.CoverImage
	}
	if in.Tags != nil {
		tags, err := model.EncodeJSON(in.Tags)
		if err != nil {
			return nil, err
		}
		updates["tags"] = tags
	}
	if len(in.ThemeConfig) > 0 {
		theme, err := registry.ParseTheme(in.ThemeConfig)
		if err != nil {
			return nil, ErrInvalidTheme
		}
		themeJSON, err := model.EncodeJSON(theme)
		if err != nil {
			return nil, err
		}
		updates["theme_config"] = themeJSON
	}
	if in.EnabledModules != nil {
		modules, err := model.EncodeJSON(in.EnabledModules)
		if err != nil {
			return nil, err
		}
		updates["enabled_modules"] = modules
	}
	if in.ModuleConfigs != nil {
		configs, err := model.EncodeJSON(in.ModuleConfigs)
		if err != nil {
			return nil, err
		}
		updates["module_configs"] = configs
	}

	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	if err := s.db.Model(&event).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.db.Where("slug = ?", slug).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// EventFilter selects events in List
type EventFilter struct {
	Status     string
	EventType  string
	Department string
	Tag        string
	Search     string
	// PublicOnly restricts results to the published and ongoing states
	PublicOnly bool
}

// EventSummary is the list-view shape: theme_config and module_configs are
// omitted to keep payload size bounded; only slug-scoped detail fetches
// include them.
type EventSummary struct {
	model.Event
	OrganizerName     string `json:"organizer_name"`
	RegistrationCount int64  `json:"registration_count"`
}

// List returns events matching the filter, newest start date first
func (s *EventService) List(filter EventFilter) ([]EventSummary, error) {
	query := s.db.Model(&model.Event{}).
		Select("events.*, users.name AS organizer_name, " +
			"(SELECT COUNT(*) FROM registrations WHERE registrations.event_id = events.id AND registrations.status <> 'cancelled') AS registration_count").
		Joins("JOIN users ON users.id = events.organizer_id")

	if filter.Status != "" {
		query = query.Where("events.status = ?", filter.Status)
	} else if filter.PublicOnly {
		query = query.Where("events.status IN ?",
			[]string{model.EventStatusPublished, model.EventStatusOngoing})
	}
	if filter.EventType != "" {
		query = query.Where("events.event_type = ?", filter.EventType)
	}
	if filter.Department != "" {
		query = query.Where("events.department = ?", filter.Department)
	}
	if filter.Tag != "" {
		query = query.Where("events.tags @> ?::jsonb", `["`+filter.Tag+`"]`)
	}
	if filter.Search != "" {
		query = query.Where("events.title ILIKE ? OR events.description ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var events []EventSummary
	if err := query.Order("events.start_date DESC").Scan(&events).Error; err != nil {
		return nil, err
	}

	for i := range events {
		events[i].ThemeConfig = nil
		events[i].ModuleConfigs = nil
	}

	return events, nil
}

// GetBySlug resolves a single event row
func (s *EventService) GetBySlug(slug string) (*model.Event, error) {
	var event model.Event
	if err := s.db.Where("slug = ?", slug).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}
