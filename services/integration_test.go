package services

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/campusflow/api/model"
	"github.com/campusflow/api/registry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupIntegrationDB connects to the database named by the DB_* environment
// variables and migrates the schema. Tests calling it are skipped unless
// RUN_INTEGRATION_TESTS=true.
func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}

	for _, v := range []string{"DB_HOST", "DB_USER_NAME", "DB_PASSWORD", "DB_NAME", "DB_PORT"} {
		if os.Getenv(v) == "" {
			t.Skipf("missing required environment variable %s", v)
		}
	}

	sslMode := os.Getenv("DB_SSL_MODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER_NAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		sslMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{}, &model.Event{}, &model.Registration{},
		&model.Team{}, &model.TeamMember{}, &model.EventRole{},
		&model.Announcement{}, &model.ScheduleItem{},
		&model.VotePoll{}, &model.Vote{}, &model.ParticipationLog{},
	); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		Role:         model.RoleStudent,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&user) })
	return &user
}

func createTestEvent(t *testing.T, db *gorm.DB, reg *registry.Registry, organizerID uint, maxParticipants int, moduleConfigs map[string]map[string]interface{}) *model.Event {
	t.Helper()

	svc := NewEventService(db, reg)
	event, err := svc.Create(organizerID, CreateEventInput{
		Title:           fmt.Sprintf("Integration Event %d", time.Now().UnixNano()),
		EventType:       "hackathon",
		MaxParticipants: maxParticipants,
		EnabledModules:  []string{registry.ModuleRegistration, registry.ModuleSchedule, registry.ModuleAnnouncements, registry.ModuleTeams, registry.ModuleVoting, registry.ModuleLeaderboard},
		ModuleConfigs:   moduleConfigs,
	})
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	status := model.EventStatusPublished
	if _, err := svc.Update(event.Slug, UpdateEventInput{Status: &status}); err != nil {
		t.Fatalf("failed to publish event: %v", err)
	}

	t.Cleanup(func() {
		db.Unscoped().Where("event_id = ?", event.ID).Delete(&model.Registration{})
		db.Unscoped().Where("event_id = ?", event.ID).Delete(&model.EventRole{})
		db.Unscoped().Delete(event)
	})

	event.Status = status
	return event
}

func TestRegistrationCapacityAndWaitlist(t *testing.T) {
	db := setupIntegrationDB(t)
	reg := registry.New()
	svc := NewRegistrationService(db)

	organizer := createTestUser(t, db, fmt.Sprintf("org-%d@test.local", time.Now().UnixNano()))
	event := createTestEvent(t, db, reg, organizer.ID, 1, map[string]map[string]interface{}{
		registry.ModuleRegistration: {"waitlist_enabled": true},
	})

	first := createTestUser(t, db, fmt.Sprintf("first-%d@test.local", time.Now().UnixNano()))
	second := createTestUser(t, db, fmt.Sprintf("second-%d@test.local", time.Now().UnixNano()))

	r1, err := svc.Register(event.Slug, first.ID)
	if err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if r1.Status != model.RegistrationStatusRegistered {
		t.Errorf("first registration status = %q, want registered", r1.Status)
	}

	r2, err := svc.Register(event.Slug, second.ID)
	if err != nil {
		t.Fatalf("second registration failed: %v", err)
	}
	if r2.Status != model.RegistrationStatusWaitlisted {
		t.Errorf("second registration status = %q, want waitlisted", r2.Status)
	}
}

func TestRegistrationFullWithoutWaitlist(t *testing.T) {
	db := setupIntegrationDB(t)
	reg := registry.New()
	svc := NewRegistrationService(db)

	organizer := createTestUser(t, db, fmt.Sprintf("org-%d@test.local", time.Now().UnixNano()))
	event := createTestEvent(t, db, reg, organizer.ID, 1, nil)

	first := createTestUser(t, db, fmt.Sprintf("first-%d@test.local", time.Now().UnixNano()))
	second := createTestUser(t, db, fmt.Sprintf("second-%d@test.local", time.Now().UnixNano()))

	if _, err := svc.Register(event.Slug, first.ID); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.Register(event.Slug, second.ID); err != ErrEventFull {
		t.Errorf("got %v, want ErrEventFull", err)
	}
}

func TestRegistrationDuplicateAndRevival(t *testing.T) {
	db := setupIntegrationDB(t)
	reg := registry.New()
	svc := NewRegistrationService(db)

	organizer := createTestUser(t, db, fmt.Sprintf("org-%d@test.local", time.Now().UnixNano()))
	event := createTestEvent(t, db, reg, organizer.ID, 10, nil)
	user := createTestUser(t, db, fmt.Sprintf("user-%d@test.local", time.Now().UnixNano()))

	first, err := svc.Register(event.Slug, user.ID)
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if _, err := svc.Register(event.Slug, user.ID); err != ErrAlreadyRegistered {
		t.Errorf("duplicate registration: got %v, want ErrAlreadyRegistered", err)
	}

	// idempotent cancel
	if err := svc.Cancel(event.Slug, user.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if err := svc.Cancel(event.Slug, user.ID); err != nil {
		t.Errorf("repeat cancel should be a no-op, got %v", err)
	}

	// re-registering revives the same row
	revived, err := svc.Register(event.Slug, user.ID)
	if err != nil {
		t.Fatalf("re-registration failed: %v", err)
	}
	if revived.ID != first.ID {
		t.Errorf("re-registration created row %d, want revived row %d", revived.ID, first.ID)
	}
	if revived.Status != model.RegistrationStatusRegistered {
		t.Errorf("revived status = %q, want registered", revived.Status)
	}
}

func TestCheckInWritesParticipation(t *testing.T) {
	db := setupIntegrationDB(t)
	reg := registry.New()
	svc := NewRegistrationService(db)

	organizer := createTestUser(t, db, fmt.Sprintf("org-%d@test.local", time.Now().UnixNano()))
	event := createTestEvent(t, db, reg, organizer.ID, 10, nil)
	user := createTestUser(t, db, fmt.Sprintf("user-%d@test.local", time.Now().UnixNano()))
	t.Cleanup(func() {
		db.Unscoped().Where("event_id = ?", event.ID).Delete(&model.ParticipationLog{})
	})

	if _, err := svc.Register(event.Slug, user.ID); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	row, err := svc.CheckIn(event.Slug, user.ID)
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if row.Status != model.RegistrationStatusAttended {
		t.Errorf("status = %q, want attended", row.Status)
	}
	if row.CheckedInAt == nil {
		t.Error("CheckedInAt not set")
	}

	// a second check-in is not eligible
	if _, err := svc.CheckIn(event.Slug, user.ID); err != ErrRegistrationNotEligible {
		t.Errorf("repeat check-in: got %v, want ErrRegistrationNotEligible", err)
	}

	var entry model.ParticipationLog
	if err := db.Where("event_id = ? AND user_id = ?", event.ID, user.ID).First(&entry).Error; err != nil {
		t.Fatalf("participation log row missing: %v", err)
	}
	if entry.PointsEarned != DefaultParticipationPoints {
		t.Errorf("points = %d, want %d", entry.PointsEarned, DefaultParticipationPoints)
	}

	var fresh model.User
	if err := db.First(&fresh, user.ID).Error; err != nil {
		t.Fatal(err)
	}
	if fresh.EngagementScore != DefaultParticipationPoints {
		t.Errorf("engagement score = %d, want %d", fresh.EngagementScore, DefaultParticipationPoints)
	}
}

func TestComposerReturnsEnabledModuleKeys(t *testing.T) {
	db := setupIntegrationDB(t)
	reg := registry.New()
	composer := NewComposerService(db)

	organizer := createTestUser(t, db, fmt.Sprintf("org-%d@test.local", time.Now().UnixNano()))
	event := createTestEvent(t, db, reg, organizer.ID, 10, nil)

	detail, err := composer.Compose(event.Slug)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}

	for _, key := range []string{registry.ModuleRegistration, registry.ModuleSchedule, registry.ModuleAnnouncements, registry.ModuleTeams, registry.ModuleVoting, registry.ModuleLeaderboard} {
		if _, ok := detail.Modules[key]; !ok {
			t.Errorf("composed payload missing module %q", key)
		}
	}

	// checkin never contributes microsite data
	if _, ok := detail.Modules[registry.ModuleCheckin]; ok {
		t.Error("checkin should not appear in the composed payload")
	}

	// the creator holds the head role
	if len(detail.Roles) != 1 || detail.Roles[0].Role != model.EventRoleHead {
		t.Errorf("expected a single head role, got %+v", detail.Roles)
	}
}

func TestComposerSkipsUnknownModules(t *testing.T) {
	db := setupIntegrationDB(t)
	reg := registry.New()
	composer := NewComposerService(db)

	organizer := createTestUser(t, db, fmt.Sprintf("org-%d@test.local", time.Now().UnixNano()))
	event := createTestEvent(t, db, reg, organizer.ID, 10, nil)

	// write a module list containing an ID no fetcher knows about
	enabled, err := json.Marshal([]string{registry.ModuleSchedule, "holographic-stage"})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&model.Event{}).Where("id = ?", event.ID).
		Update("enabled_modules", enabled).Error; err != nil {
		t.Fatal(err)
	}

	detail, err := composer.Compose(event.Slug)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if _, ok := detail.Modules["holographic-stage"]; ok {
		t.Error("unknown module should be skipped, not composed")
	}
	if _, ok := detail.Modules[registry.ModuleSchedule]; !ok {
		t.Error("known module missing from payload")
	}
}

func TestPollVoteTally(t *testing.T) {
	db := setupIntegrationDB(t)
	reg := registry.New()
	content := NewContentService(db)
	composer := NewComposerService(db)

	organizer := createTestUser(t, db, fmt.Sprintf("org-%d@test.local", time.Now().UnixNano()))
	event := createTestEvent(t, db, reg, organizer.ID, 10, nil)

	poll, err := content.CreatePoll(event.Slug, CreatePollInput{
		Question: "Best track?",
		Options:  []string{"AI", "Web", "Gaming"},
	})
	if err != nil {
		t.Fatalf("create poll failed: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("poll_id = ?", poll.ID).Delete(&model.Vote{})
		db.Unscoped().Delete(poll)
	})

	voterA := createTestUser(t, db, fmt.Sprintf("a-%d@test.local", time.Now().UnixNano()))
	voterB := createTestUser(t, db, fmt.Sprintf("b-%d@test.local", time.Now().UnixNano()))

	if _, err := content.Vote(event.Slug, poll.ID, voterA.ID, 0); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := content.Vote(event.Slug, poll.ID, voterB.ID, 0); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := content.Vote(event.Slug, poll.ID, voterA.ID, 1); err != ErrAlreadyVoted {
		t.Errorf("second vote: got %v, want ErrAlreadyVoted", err)
	}
	if _, err := content.Vote(event.Slug, poll.ID, voterB.ID, 99); err != ErrInvalidOption {
		t.Errorf("out-of-range vote: got %v, want ErrInvalidOption", err)
	}

	detail, err := composer.Compose(event.Slug)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}

	polls, ok := detail.Modules[registry.ModuleVoting].([]PollResult)
	if !ok {
		t.Fatalf("voting module has unexpected type %T", detail.Modules[registry.ModuleVoting])
	}
	if len(polls) != 1 {
		t.Fatalf("got %d polls, want 1", len(polls))
	}

	counts := polls[0].VoteCounts
	if len(counts) != 1 {
		t.Fatalf("got %d tally rows, want 1 (unvoted options are absent)", len(counts))
	}
	if counts[0].OptionIndex != 0 || counts[0].Count != 2 {
		t.Errorf("tally = %+v, want option 0 with 2 votes", counts[0])
	}
}

func TestVoteValidatesOptionRange(t *testing.T) {
	db := setupIntegrationDB(t)
	reg := registry.New()
	content := NewContentService(db)

	organizer := createTestUser(t, db, fmt.Sprintf("org-%d@test.local", time.Now().UnixNano()))
	event := createTestEvent(t, db, reg, organizer.ID, 10, nil)

	poll, err := content.CreatePoll(event.Slug, CreatePollInput{
		Question: "Pick one",
		Options:  []string{"yes", "no"},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(poll) })

	voter := createTestUser(t, db, fmt.Sprintf("v-%d@test.local", time.Now().UnixNano()))

	if _, err := content.Vote(event.Slug, poll.ID, voter.ID, 2); err != ErrInvalidOption {
		t.Errorf("got %v, want ErrInvalidOption", err)
	}
	if _, err := content.Vote(event.Slug, poll.ID, voter.ID, -1); err != ErrInvalidOption {
		t.Errorf("got %v, want ErrInvalidOption", err)
	}

	if err := content.ClosePoll(event.Slug, poll.ID); err != nil {
		t.Fatalf("close poll failed: %v", err)
	}
	if _, err := content.Vote(event.Slug, poll.ID, voter.ID, 0); err != ErrPollClosed {
		t.Errorf("vote on closed poll: got %v, want ErrPollClosed", err)
	}
}

func TestPollScopedToOwnEvent(t *testing.T) {
	db := setupIntegrationDB(t)
	reg := registry.New()
	content := NewContentService(db)

	organizer := createTestUser(t, db, fmt.Sprintf("org-%d@test.local", time.Now().UnixNano()))
	eventA := createTestEvent(t, db, reg, organizer.ID, 10, nil)
	eventB := createTestEvent(t, db, reg, organizer.ID, 10, nil)

	poll, err := content.CreatePoll(eventA.Slug, CreatePollInput{
		Question: "Best session?",
		Options:  []string{"keynote", "workshop"},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("poll_id = ?", poll.ID).Delete(&model.Vote{})
		db.Unscoped().Delete(poll)
	})

	// another event's slug must not reach this poll
	if err := content.ClosePoll(eventB.Slug, poll.ID); err != ErrPollNotFound {
		t.Errorf("close via other event: got %v, want ErrPollNotFound", err)
	}

	voter := createTestUser(t, db, fmt.Sprintf("v-%d@test.local", time.Now().UnixNano()))
	if _, err := content.Vote(eventB.Slug, poll.ID, voter.ID, 0); err != ErrPollNotFound {
		t.Errorf("vote via other event: got %v, want ErrPollNotFound", err)
	}

	var fresh model.VotePoll
	if err := db.First(&fresh, poll.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !fresh.IsActive {
		t.Error("poll was deactivated through a foreign event")
	}

	if err := content.ClosePoll(eventA.Slug, poll.ID); err != nil {
		t.Fatalf("close via own event failed: %v", err)
	}
}

func TestThemeSnapshotIndependentOfPreset(t *testing.T) {
	db := setupIntegrationDB(t)

	// a registry with a stand-in preset catalog, mutated after creation
	themes := registry.DefaultThemes()
	reg := registry.NewWith(registry.DefaultModules(), themes)
	svc := NewEventService(db, reg)

	organizer := createTestUser(t, db, fmt.Sprintf("org-%d@test.local", time.Now().UnixNano()))
	event, err := svc.Create(organizer.ID, CreateEventInput{
		Title: fmt.Sprintf("Theme Snapshot %d", time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("event_id = ?", event.ID).Delete(&model.EventRole{})
		db.Unscoped().Delete(event)
	})

	var stored registry.Theme
	if err := json.Unmarshal(event.ThemeConfig, &stored); err != nil {
		t.Fatalf("stored theme does not decode: %v", err)
	}
	if err := stored.Validate(); err != nil {
		t.Errorf("stored default snapshot invalid: %v", err)
	}

	want := registry.DefaultThemes()["default"]
	if stored.Colors != want.Colors {
		t.Error("stored snapshot differs from the default preset at creation time")
	}
}
