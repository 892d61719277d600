package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/campusflow/api/model"
	"gorm.io/gorm"
)

// RecommendationLimit caps the number of events returned per user
const RecommendationLimit = 10

// RecommendationService scores upcoming events against a user's interests
// and department
type RecommendationService struct {
	db *gorm.DB
}

// NewRecommendationService creates the recommendation service
func NewRecommendationService(db *gorm.DB) *RecommendationService {
	return &RecommendationService{db: db}
}

// ScoreEvent computes the relevance of an event for a user: one point per
// interest contained in any tag (case-insensitive), plus half a point when
// departments match. An interest matching several tags still counts once.
func ScoreEvent(interests []string, userDepartment string, tags []string, eventDepartment string) float64 {
	score := 0.0

	for _, interest := range interests {
		in := strings.ToLower(strings.TrimSpace(interest))
		if in == "" {
			continue
		}
		for _, tag := range tags {
			tg := strings.ToLower(strings.TrimSpace(tag))
			if tg == "" {
				continue
			}
			if strings.Contains(tg, in) {
				score++
				break
			}
		}
	}

	if userDepartment != "" && eventDepartment != "" &&
		strings.EqualFold(userDepartment, eventDepartment) {
		score += 0.5
	}

	return score
}

// RecommendedEvent is an event summary with its relevance score attached
type RecommendedEvent struct {
	model.Event
	RelevanceScore float64 `json:"relevance_score"`
}

// Recommend returns up to RecommendationLimit published or ongoing events
// the user has not registered for, ranked by relevance. Events tie-broken
// by start date, soonest first.
func (s *RecommendationService) Recommend(userID uint) ([]RecommendedEvent, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	interests, err := user.InterestList()
	if err != nil {
		return nil, err
	}

	var events []model.Event
	err = s.db.
		Where("status IN ?", []string{model.EventStatusPublished, model.EventStatusOngoing}).
		Where("id NOT IN (?)", s.db.Model(&model.Registration{}).
			Select("event_id").
			Where("user_id = ? AND status <> ?", userID, model.RegistrationStatusCancelled)).
		Order("start_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	scored := make([]RecommendedEvent, 0, len(events))
	for i := range events {
		tags, err := events[i].TagList()
		if err != nil {
			return nil, err
		}
		events[i].ThemeConfig = nil
		events[i].ModuleConfigs = nil
		scored = append(scored, RecommendedEvent{
			Event:          events[i],
			RelevanceScore: ScoreEvent(interests, user.Department, tags, events[i].Department),
		})
	}

	// stable sort keeps the start-date ordering among equal scores
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if len(scored) > RecommendationLimit {
		scored = scored[:RecommendationLimit]
	}
	return scored, nil
}
