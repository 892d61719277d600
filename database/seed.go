package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/campusflow/api/model"
	"github.com/campusflow/api/registry"
	"github.com/campusflow/api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db  *gorm.DB
	reg *registry.Registry
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, reg *registry.Registry) *Seeder {
	return &Seeder{db: db, reg: reg}
}

// RunSeeds runs all seeds against the given connection
func RunSeeds(db *gorm.DB, reg *registry.Registry) error {
	return NewSeeder(db, reg).SeedAll()
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedModuleRegistry(); err != nil {
		return fmt.Errorf("failed to seed module registry: %w", err)
	}

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedDemoData(); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedModuleRegistry snapshots the in-process module catalog into the
// module_registry table so the catalog is queryable alongside event data.
// The snapshot is refreshed on every run; the catalog is the source of truth.
func (s *Seeder) SeedModuleRegistry() error {
	for _, m := range s.reg.Modules() {
		schema, err := model.EncodeJSON(m.ConfigSchema)
		if err != nil {
			return err
		}

		entry := model.ModuleRegistryEntry{
			ID:             m.ID,
			Name:           m.Name,
			Description:    m.Description,
			Icon:           m.Icon,
			DefaultEnabled: m.DefaultEnabled,
			ConfigSchema:   schema,
			SortOrder:      m.SortOrder,
		}

		if err := s.db.Save(&entry).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Synced %d modules into module_registry\n", len(s.reg.Modules()))
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	interests, _ := model.EncodeJSON([]string{})
	admin := &model.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Name:         "Platform Administrator",
		Role:         model.RoleAdmin,
		Interests:    interests,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user: %s\n", admin.Email)
	return nil
}

// SeedDemoData creates a demo organizer with a pair of published events so a
// fresh install has something to show
func (s *Seeder) SeedDemoData() error {
	var count int64
	if err := s.db.Model(&model.Event{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Events already exist, skipping demo data...")
		return nil
	}

	passwordHash, err := auth.HashPassword("changeme123")
	if err != nil {
		return err
	}

	interests, _ := model.EncodeJSON([]string{"tech", "design"})
	organizer := &model.User{
		Email:        "organizer@campus.edu",
		PasswordHash: passwordHash,
		Name:         "Demo Organizer",
		Role:         model.RoleOrganizer,
		Department:   "CSE",
		Interests:    interests,
	}
	if err := s.db.Create(organizer).Error; err != nil {
		return err
	}

	hackTheme, _ := s.reg.Theme("hackathon")
	themeJSON, err := model.EncodeJSON(hackTheme)
	if err != nil {
		return err
	}
	tags, _ := model.EncodeJSON([]string{"tech", "coding", "hackathon"})
	modules, _ := model.EncodeJSON([]string{
		registry.ModuleRegistration, registry.ModuleSchedule,
		registry.ModuleAnnouncements, registry.ModuleTeams, registry.ModuleLeaderboard,
	})
	configs, _ := model.EncodeJSON(map[string]map[string]interface{}{
		registry.ModuleRegistration: {"waitlist_enabled": true},
		registry.ModuleTeams:        {"max_team_size": 4},
	})

	start := time.Now().AddDate(0, 0, 14)
	end := start.AddDate(0, 0, 2)
	event := &model.Event{
		Title:            "Campus Hack Night",
		Slug:             fmt.Sprintf("campus-hack-night-%d", time.Now().Unix()),
		Description:      "48 hours of building, mentoring, and demos.",
		ShortDescription: "Overnight hackathon for all departments",
		EventType:        "hackathon",
		Status:           model.EventStatusPublished,
		OrganizerID:      organizer.ID,
		Department:       "CSE",
		StartDate:        &start,
		EndDate:          &end,
		Venue:            "Innovation Lab",
		MaxParticipants:  120,
		Tags:             tags,
		ThemeConfig:      themeJSON,
		EnabledModules:   modules,
		ModuleConfigs:    configs,
	}
	if err := s.db.Create(event).Error; err != nil {
		return err
	}

	headRole := &model.EventRole{
		EventID: event.ID,
		UserID:  organizer.ID,
		Role:    model.EventRoleHead,
	}
	if err := s.db.Create(headRole).Error; err != nil {
		return err
	}

	kickoff := &model.ScheduleItem{
		EventID:   event.ID,
		Title:     "Kickoff & Team Formation",
		StartTime: start,
		Venue:     "Innovation Lab",
		SortOrder: 1,
	}
	if err := s.db.Create(kickoff).Error; err != nil {
		return err
	}

	log.Printf("✅ Created demo event: %s\n", event.Slug)
	return nil
}
