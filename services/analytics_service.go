package services

import (
	"github.com/campusflow/api/model"
	"gorm.io/gorm"
)

// DepartmentCount is one row of the department engagement ranking
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

// PlatformStats is the admin analytics snapshot
type PlatformStats struct {
	TotalUsers         int64             `json:"total_users"`
	TotalEvents        int64             `json:"total_events"`
	ActiveEvents       int64             `json:"active_events"`
	TotalRegistrations int64             `json:"total_registrations"`
	EventsByType       map[string]int64  `json:"events_by_type"`
	EventsByStatus     map[string]int64  `json:"events_by_status"`
	TopDepartments     []DepartmentCount `json:"top_departments"`
}

// AnalyticsService aggregates platform-wide counters for the admin dashboard
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates the analytics service
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

type groupCount struct {
	Key   string
	Count int64
}

// Stats computes the platform snapshot. Cancelled registrations are excluded
// from the registration total; active events are published or ongoing.
func (s *AnalyticsService) Stats() (*PlatformStats, error) {
	stats := &PlatformStats{
		EventsByType:   map[string]int64{},
		EventsByStatus: map[string]int64{},
		TopDepartments: []DepartmentCount{},
	}

	if err := s.db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Event{}).Count(&stats.TotalEvents).Error; err != nil {
		return nil, err
	}

	err := s.db.Model(&model.Event{}).
		Where("status IN ?", []string{model.EventStatusPublished, model.EventStatusOngoing}).
		Count(&stats.ActiveEvents).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&model.Registration{}).
		Where("status <> ?", model.RegistrationStatusCancelled).
		Count(&stats.TotalRegistrations).Error
	if err != nil {
		return nil, err
	}

	var byType []groupCount
	err = s.db.Model(&model.Event{}).
		Select("event_type AS key, COUNT(*) AS count").
		Group("event_type").
		Scan(&byType).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byType {
		stats.EventsByType[row.Key] = row.Count
	}

	var byStatus []groupCount
	err = s.db.Model(&model.Event{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		stats.EventsByStatus[row.Key] = row.Count
	}

	err = s.db.Model(&model.User{}).
		Select("department, COUNT(*) AS count").
		Where("department <> ''").
		Group("department").
		Order("count DESC").
		Limit(5).
		Scan(&stats.TopDepartments).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
