package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/campusflow/api/model"
	authutil "github.com/campusflow/api/utils/auth"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupAuthTestDB connects to the database named by the DB_* environment
// variables. Tests calling it are skipped unless RUN_INTEGRATION_TESTS=true.
func setupAuthTestDB(t *testing.T) *gorm.DB {
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

	if err := db.AutoMigrate(&model.User{}, &model.RevokedToken{}); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	return db
}

func TestRefreshRejectsStaleTokenVersion(t *testing.T) {
	db := setupAuthTestDB(t)

	jwtManager := authutil.NewJWTManager(authutil.JWTConfig{
		Secret:        "refresh-version-test-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "campusflow-test",
	})

	user := model.User{
		Email:        fmt.Sprintf("refresh-%d@test.local", time.Now().UnixNano()),
		PasswordHash: "x",
		Name:         "Refresh Test",
		Role:         model.RoleStudent,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&user) })

	refreshToken, _, err := jwtManager.GenerateRefreshToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	app := fiber.New()
	handler := NewAuthHandler(db, jwtManager, nil, nil)
	app.Post("/refresh", handler.Refresh)

	refresh := func(t *testing.T) int {
		t.Helper()
		body, _ := json.Marshal(RefreshRequest{RefreshToken: refreshToken})
		req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		return resp.StatusCode
	}

	if code := refresh(t); code != http.StatusOK {
		t.Fatalf("refresh with current token version: got %d, want 200", code)
	}

	// bumping the user's token version invalidates the outstanding token
	if err := db.Model(&user).Update("token_version", user.TokenVersion+1).Error; err != nil {
		t.Fatalf("failed to bump token version: %v", err)
	}

	if code := refresh(t); code != http.StatusUnauthorized {
		t.Errorf("refresh with stale token version: got %d, want 401", code)
	}
}
