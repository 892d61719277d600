package user

import (
	"errors"
	"strconv"

	"github.com/campusflow/api/model"
	"github.com/campusflow/api/services"
	"github.com/campusflow/api/utils/middleware"
	"github.com/campusflow/api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserHandler serves user listing, profiles, and per-user history
type UserHandler struct {
	users         *services.UserService
	registrations *services.RegistrationService
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		users:         services.NewUserService(db),
		registrations: services.NewRegistrationService(db),
	}
}

// List returns users matching the query filters. Admin only.
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(services.UserFilter{
		Role:       c.Query("role"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}
	return response.OK(c, users)
}

func parseUserID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}

// canViewUser gates personal history: the user themselves or an admin
func canViewUser(c *fiber.Ctx, targetID uint) bool {
	user, ok := middleware.GetUser(c)
	if !ok {
		return false
	}
	return user.ID == targetID || user.Role == model.RoleAdmin
}

// Get returns a user's public profile
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}
	return response.OK(c, user)
}

// Registrations returns a user's registrations with event details
func (h *UserHandler) Registrations(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}
	if !canViewUser(c, id) {
		return response.Forbidden(c, "Cannot view another user's registrations")
	}

	rows, err := h.registrations.ListForUser(id)
	if err != nil {
		return response.InternalServerError(c, "Failed to list registrations")
	}
	return response.OK(c, rows)
}

// Participation returns a user's participation history, optionally filtered
// by academic year
func (h *UserHandler) Participation(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}
	if !canViewUser(c, id) {
		return response.Forbidden(c, "Cannot view another user's participation")
	}

	rows, err := h.users.ParticipationHistory(id, c.Query("academic_year"))
	if err != nil {
		return response.InternalServerError(c, "Failed to load participation history")
	}
	return response.OK(c, rows)
}
