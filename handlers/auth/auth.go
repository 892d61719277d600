package auth

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/campusflow/api/model"
	"github.com/campusflow/api/services"
	"github.com/campusflow/api/services/spaces"
	authutil "github.com/campusflow/api/utils/auth"
	"github.com/campusflow/api/utils/middleware"
	"github.com/campusflow/api/utils/response"
	"github.com/campusflow/api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// accessTokenTTLSeconds mirrors the JWT manager's access token lifetime
const accessTokenTTLSeconds = 24 * 60 * 60

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	users                *services.UserService
	jwtManager           *authutil.JWTManager
	blacklistService     *authutil.BlacklistService
	bruteForceProtection *middleware.BruteForceProtection
	storage              *spaces.Client
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection, storage *spaces.Client) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		users:                services.NewUserService(db),
		jwtManager:           jwtManager,
		blacklistService:     authutil.NewBlacklistService(db),
		bruteForceProtection: bruteForceProtection,
		storage:              storage,
		validator:            validation.NewValidator(),
	}
}

// RegisterRequest is the sign-up payload
type RegisterRequest struct {
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=8"`
	Name       string   `json:"name" validate:"required,min=2"`
	Department string   `json:"department"`
	Year       int      `json:"year" validate:"omitempty,min=1,max=6"`
	Interests  []string `json:"interests"`
}

// TokenResponse carries a fresh token pair with the authenticated user
type TokenResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"` // in seconds
}

// Register creates a student account and signs it in
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FormatValidationErrors(err))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := h.users.GetByEmail(email); err == nil {
		return response.Conflict(c, "An account with this email already exists")
	} else if !errors.Is(err, services.ErrUserNotFound) {
		return response.InternalServerError(c, "Failed to check existing account")
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	interests := req.Interests
	if interests == nil {
		interests = []string{}
	}
	encoded, err := model.EncodeJSON(interests)
	if err != nil {
		return response.InternalServerError(c, "Failed to encode interests")
	}

	user := model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         validation.SanitizeString(req.Name),
		Role:         model.RoleStudent,
		Department:   validation.SanitizeString(req.Department),
		Year:         req.Year,
		Interests:    encoded,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create account")
	}

	return h.issueTokens(c, &user, fiber.StatusCreated)
}

// LoginRequest is the sign-in payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a token pair
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	ip := c.IP()

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, "Invalid email or password")
	}

	if err := authutil.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, "Invalid email or password")
	}

	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, ip)
	}

	return h.issueTokens(c, user, fiber.StatusOK)
}

func (h *AuthHandler) issueTokens(c *fiber.Ctx, user *model.User, status int) error {
	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}
	refreshToken, _, err := h.jwtManager.GenerateRefreshToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate refresh token")
	}

	return c.Status(status).JSON(TokenResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    accessTokenTTLSeconds,
	})
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a valid refresh token for a new access token
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired refresh token")
	}

	revoked, err := h.blacklistService.IsTokenRevoked(c.Context(), claims.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to verify token")
	}
	if revoked {
		return response.Unauthorized(c, "Token has been revoked")
	}

	user, err := h.users.GetByID(claims.UserID)
	if err != nil {
		return response.Unauthorized(c, "Account no longer exists")
	}

	// a token version bump invalidates every outstanding refresh token
	if claims.TokenVersion != user.TokenVersion {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	accessToken, _, err := h.jwtManager.RefreshAccessToken(req.RefreshToken, user.TokenVersion)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired refresh token")
	}

	return response.OK(c, fiber.Map{
		"access_token": accessToken,
		"expires_in":   accessTokenTTLSeconds,
	})
}

// Logout revokes the presented access token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := h.blacklistService.RevokeToken(c.Context(), claims.ID, claims.UserID, expiresAt, "logout"); err != nil {
		return response.InternalServerError(c, "Failed to revoke token")
	}

	return response.OK(c, fiber.Map{"message": "Logged out successfully"})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	return response.OK(c, user)
}

// UpdateProfile applies a partial update to the caller's profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req services.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.users.UpdateProfile(userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoProfileData):
			return response.BadRequest(c, "No profile fields provided")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.OK(c, user)
}

// UploadAvatar replaces the caller's avatar image. Requires object storage
// to be configured.
func (h *AuthHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return response.BadRequest(c, "An 'avatar' file is required")
	}
	if fileHeader.Size > spaces.MaxCoverImageSize {
		return response.BadRequest(c, "Avatar must be 5MB or smaller")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return response.InternalServerError(c, "Failed to read upload")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.storage.UploadAvatar(c.Context(), userID, contentType, data)
	if err != nil {
		switch {
		case errors.Is(err, spaces.ErrNotConfigured):
			return response.BadGateway(c, "Object storage is not configured")
		case errors.Is(err, spaces.ErrFileTooLarge):
			return response.BadRequest(c, "Avatar must be 5MB or smaller")
		case errors.Is(err, spaces.ErrUnsupportedType):
			return response.BadRequest(c, "Avatar must be JPEG, PNG, or WebP")
		default:
			return response.BadGateway(c, "Failed to upload avatar")
		}
	}

	user, err := h.users.UpdateProfile(userID, services.ProfileUpdate{AvatarURL: &url})
	if err != nil {
		return response.InternalServerError(c, "Failed to save avatar")
	}
	return response.OK(c, user)
}
