package services

import (
	"errors"
	"strings"

	"github.com/campusflow/api/model"
	"github.com/campusflow/api/registry"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Team errors
var (
	ErrTeamNotFound    = errors.New("team not found")
	ErrTeamFull        = errors.New("team is full")
	ErrAlreadyOnTeam   = errors.New("already on a team for this event")
	ErrTeamsNotEnabled = errors.New("teams are not enabled for this event")
	ErrNotRegistered   = errors.New("must be registered for the event to join a team")
	ErrTeamNameTaken   = errors.New("a team with this name already exists for this event")
)

// TeamService owns team formation for events with the teams module enabled
type TeamService struct {
	db *gorm.DB
}

// NewTeamService creates the team service
func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

func (s *TeamService) requireTeamsEnabled(tx *gorm.DB, slug string) (*model.Event, error) {
	var event model.Event
	if err := tx.Where("slug = ?", slug).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	enabled, err := event.EnabledModuleIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range enabled {
		if id == registry.ModuleTeams {
			return &event, nil
		}
	}
	return nil, ErrTeamsNotEnabled
}

// teamMaxSize reads the teams module config, falling back to the team row's
// default when absent
func teamMaxSize(event *model.Event) (int, error) {
	configs, err := event.ModuleConfigMap()
	if err != nil {
		return 0, err
	}
	if cfg, ok := configs[registry.ModuleTeams]; ok {
		if v, ok := cfg["max_team_size"].(float64); ok && v > 0 {
			return int(v), nil
		}
	}
	return 0, nil
}

func (s *TeamService) activeRegistration(tx *gorm.DB, eventID, userID uint) (*model.Registration, error) {
	var reg model.Registration
	err := tx.Where("event_id = ? AND user_id = ? AND status <> ?",
		eventID, userID, model.RegistrationStatusCancelled).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	return &reg, nil
}

// CreateTeamInput is the team creation payload
type CreateTeamInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CreateTeam forms a team led by the caller, who becomes its first member.
// The caller must hold an active registration, belong to no other team for
// the event, and team names are unique per event.
func (s *TeamService) CreateTeam(slug string, leaderID uint, input CreateTeamInput) (*model.Team, error) {
	var team *model.Team

	err := s.db.Transaction(func(tx *gorm.DB) error {
		event, err := s.requireTeamsEnabled(tx, slug)
		if err != nil {
			return err
		}

		reg, err := s.activeRegistration(tx, event.ID, leaderID)
		if err != nil {
			return err
		}

		var onTeam int64
		err = tx.Model(&model.TeamMember{}).
			Joins("JOIN teams ON teams.id = team_members.team_id").
			Where("teams.event_id = ? AND team_members.user_id = ?", event.ID, leaderID).
			Count(&onTeam).Error
		if err != nil {
			return err
		}
		if onTeam > 0 {
			return ErrAlreadyOnTeam
		}

		name := strings.TrimSpace(input.Name)
		var nameTaken int64
		err = tx.Model(&model.Team{}).
			Where("event_id = ? AND LOWER(name) = ?", event.ID, strings.ToLower(name)).
			Count(&nameTaken).Error
		if err != nil {
			return err
		}
		if nameTaken > 0 {
			return ErrTeamNameTaken
		}

		row := model.Team{
			EventID:  event.ID,
			Name:     name,
			LeaderID: leaderID,
		}
		if maxSize, err := teamMaxSize(event); err != nil {
			return err
		} else if maxSize > 0 {
			row.MaxSize = maxSize
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		member := model.TeamMember{
			TeamID: row.ID,
			UserID: leaderID,
			Role:   "leader",
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		reg.TeamID = &row.ID
		if err := tx.Save(reg).Error; err != nil {
			return err
		}

		team = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// JoinTeam adds the caller to a team. Size is checked under a row lock on
// the team so concurrent joins cannot overshoot MaxSize.
func (s *TeamService) JoinTeam(slug string, teamID, userID uint) (*model.TeamMember, error) {
	var member *model.TeamMember

	err := s.db.Transaction(func(tx *gorm.DB) error {
		event, err := s.requireTeamsEnabled(tx, slug)
		if err != nil {
			return err
		}

		var team model.Team
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND event_id = ?", teamID, event.ID).First(&team).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return err
		}

		reg, err := s.activeRegistration(tx, event.ID, userID)
		if err != nil {
			return err
		}

		var onTeam int64
		err = tx.Model(&model.TeamMember{}).
			Joins("JOIN teams ON teams.id = team_members.team_id").
			Where("teams.event_id = ? AND team_members.user_id = ?", event.ID, userID).
			Count(&onTeam).Error
		if err != nil {
			return err
		}
		if onTeam > 0 {
			return ErrAlreadyOnTeam
		}

		var size int64
		if err := tx.Model(&model.TeamMember{}).Where("team_id = ?", team.ID).Count(&size).Error; err != nil {
			return err
		}
		if team.MaxSize > 0 && size >= int64(team.MaxSize) {
			return ErrTeamFull
		}

		row := model.TeamMember{
			TeamID: team.ID,
			UserID: userID,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		reg.TeamID = &team.ID
		if err := tx.Save(reg).Error; err != nil {
			return err
		}

		member = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}
