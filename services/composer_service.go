package services

import (
	"errors"
	"time"

	"github.com/campusflow/api/model"
	"github.com/campusflow/api/registry"
	"gorm.io/gorm"
)

// ModuleFetcher loads one enabled module's data for an event. The composer
// attaches the result under a key matching the module ID.
type ModuleFetcher func(db *gorm.DB, event *model.Event) (interface{}, error)

// ComposerService produces the denormalized payload that drives an event's
// public microsite: the event record merged with data from every module it
// has enabled. Module IDs without a registered fetcher are silently skipped,
// which keeps the payload forward-compatible with unknown modules.
type ComposerService struct {
	db       *gorm.DB
	fetchers map[string]ModuleFetcher
}

// NewComposerService creates a composer with the built-in module fetchers
func NewComposerService(db *gorm.DB) *ComposerService {
	s := &ComposerService{
		db:       db,
		fetchers: map[string]ModuleFetcher{},
	}

	s.Register(registry.ModuleRegistration, fetchRegistrationSummary)
	s.Register(registry.ModuleSchedule, fetchSchedule)
	s.Register(registry.ModuleAnnouncements, fetchAnnouncements)
	s.Register(registry.ModuleTeams, fetchTeams)
	s.Register(registry.ModuleVoting, fetchPolls)
	s.Register(registry.ModuleLeaderboard, fetchLeaderboard)
	// checkin has no public microsite data; it stays unregistered and is
	// skipped during composition

	return s
}

// Register adds or replaces the fetcher for a module ID
func (s *ComposerService) Register(moduleID string, fetcher ModuleFetcher) {
	s.fetchers[moduleID] = fetcher
}

// HasFetcher reports whether a module ID has composition support
func (s *ComposerService) HasFetcher(moduleID string) bool {
	_, ok := s.fetchers[moduleID]
	return ok
}

// EventRoleInfo is an event role with the assignee's name attached
type EventRoleInfo struct {
	ID         uint      `json:"id"`
	EventID    uint      `json:"event_id"`
	UserID     uint      `json:"user_id"`
	Role       string    `json:"role"`
	AssignedAt time.Time `json:"assigned_at"`
	UserName   string    `json:"user_name"`
}

// EventDetail is the composed microsite payload
type EventDetail struct {
	model.Event
	OrganizerName string                 `json:"organizer_name"`
	Modules       map[string]interface{} `json:"modules"`
	Roles         []EventRoleInfo        `json:"roles"`
}

// Compose resolves an event by slug and merges in the data of every enabled
// module that has a registered fetcher
func (s *ComposerService) Compose(slug string) (*EventDetail, error) {
	var event model.Event
	if err := s.db.Preload("Organizer").Where("slug = ?", slug).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	enabled, err := event.EnabledModuleIDs()
	if err != nil {
		return nil, err
	}

	modules := map[string]interface{}{}
	for _, id := range enabled {
		fetcher, ok := s.fetchers[id]
		if !ok {
			continue
		}
		data, err := fetcher(s.db, &event)
		if err != nil {
			return nil, err
		}
		modules[id] = data
	}

	var roles []EventRoleInfo
	if err := s.db.Model(&model.EventRole{}).
		Select("event_roles.*, users.name AS user_name").
		Joins("JOIN users ON users.id = event_roles.user_id").
		Where("event_roles.event_id = ?", event.ID).
		Scan(&roles).Error; err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []EventRoleInfo{}
	}

	return &EventDetail{
		Event:         event,
		OrganizerName: event.Organizer.Name,
		Modules:       modules,
		Roles:         roles,
	}, nil
}

// RegistrationSummary is the registration module's composed data
type RegistrationSummary struct {
	Count int64 `json:"count"`
	Max   int   `json:"max"`
}

func fetchRegistrationSummary(db *gorm.DB, event *model.Event) (interface{}, error) {
	var count int64
	err := db.Model(&model.Registration{}).
		Where("event_id = ? AND status <> ?", event.ID, model.RegistrationStatusCancelled).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	return RegistrationSummary{Count: count, Max: event.MaxParticipants}, nil
}

func fetchSchedule(db *gorm.DB, event *model.Event) (interface{}, error) {
	items := []model.ScheduleItem{}
	err := db.Where("event_id = ?", event.ID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

func fetchAnnouncements(db *gorm.DB, event *model.Event) (interface{}, error) {
	items := []model.Announcement{}
	err := db.Where("event_id = ?", event.ID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// TeamSummary is a team with its leader name and live member count
type TeamSummary struct {
	ID          uint      `json:"id"`
	EventID     uint      `json:"event_id"`
	Name        string    `json:"name"`
	LeaderID    uint      `json:"leader_id"`
	MaxSize     int       `json:"max_size"`
	CreatedAt   time.Time `json:"created_at"`
	LeaderName  string    `json:"leader_name"`
	MemberCount int64     `json:"member_count"`
}

func fetchTeams(db *gorm.DB, event *model.Event) (interface{}, error) {
	teams := []TeamSummary{}
	err := db.Model(&model.Team{}).
		Select("teams.*, users.name AS leader_name, " +
			"(SELECT COUNT(*) FROM team_members WHERE team_members.team_id = teams.id) AS member_count").
		Joins("JOIN users ON users.id = teams.leader_id").
		Where("teams.event_id = ?", event.ID).
		Scan(&teams).Error
	return teams, err
}

// VoteCount is one option's tally. Options nobody voted for are absent from
// the tally, not zero-filled; consumers treat missing entries as zero.
type VoteCount struct {
	OptionIndex int   `json:"option_index"`
	Count       int64 `json:"count"`
}

// PollResult is a poll with its decoded options and per-option tally
type PollResult struct {
	ID         uint        `json:"id"`
	EventID    uint        `json:"event_id"`
	Question   string      `json:"question"`
	Options    []string    `json:"options"`
	IsActive   bool        `json:"is_active"`
	CreatedAt  time.Time   `json:"created_at"`
	VoteCounts []VoteCount `json:"vote_counts"`
}

func fetchPolls(db *gorm.DB, event *model.Event) (interface{}, error) {
	var polls []model.VotePoll
	if err := db.Where("event_id = ?", event.ID).Find(&polls).Error; err != nil {
		return nil, err
	}

	results := make([]PollResult, 0, len(polls))
	for i := range polls {
		options, err := polls[i].OptionList()
		if err != nil {
			return nil, err
		}

		counts := []VoteCount{}
		err = db.Model(&model.Vote{}).
			Select("option_index, COUNT(*) AS count").
			Where("poll_id = ?", polls[i].ID).
			Group("option_index").
			Order("option_index ASC").
			Scan(&counts).Error
		if err != nil {
			return nil, err
		}

		results = append(results, PollResult{
			ID:         polls[i].ID,
			EventID:    polls[i].EventID,
			Question:   polls[i].Question,
			Options:    options,
			IsActive:   polls[i].IsActive,
			CreatedAt:  polls[i].CreatedAt,
			VoteCounts: counts,
		})
	}

	return results, nil
}

// LeaderboardEntry ranks a team by the participation points its members
// earned for this event
type LeaderboardEntry struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	MemberCount int64  `json:"member_count"`
	Score       int64  `json:"score"`
}

func fetchLeaderboard(db *gorm.DB, event *model.Event) (interface{}, error) {
	entries := []LeaderboardEntry{}
	err := db.Model(&model.Team{}).
		Select("teams.id, teams.name, "+
			"COUNT(DISTINCT team_members.user_id) AS member_count, "+
			"COALESCE(SUM(participation_logs.points_earned), 0) AS score").
		Joins("LEFT JOIN team_members ON team_members.team_id = teams.id").
		Joins("LEFT JOIN participation_logs ON participation_logs.user_id = team_members.user_id AND participation_logs.event_id = teams.event_id").
		Where("teams.event_id = ?", event.ID).
		Group("teams.id, teams.name").
		Order("score DESC, teams.id ASC").
		Scan(&entries).Error
	return entries, err
}
