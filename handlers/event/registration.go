package event

import (
	"errors"

	"github.com/campusflow/api/services"
	"github.com/campusflow/api/utils/middleware"
	"github.com/campusflow/api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// Register signs the caller up for the event
func (h *EventHandler) Register(c *fiber.Ctx) error {
	slug := c.Params("slug")
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	registration, err := h.registrations.Register(slug, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrRegistrationsClosed):
			return response.BadRequest(c, "Event is not accepting registrations")
		case errors.Is(err, services.ErrEventFull):
			return response.Conflict(c, "Event is full")
		case errors.Is(err, services.ErrAlreadyRegistered):
			existing, lookupErr := h.registrations.GetForEvent(slug, userID)
			if lookupErr != nil {
				return response.Conflict(c, "Already registered for this event")
			}
			return response.ConflictWith(c, "Already registered for this event", "registration", existing)
		default:
			return response.InternalServerError(c, "Failed to register")
		}
	}

	return response.Created(c, registration)
}

// CancelRegistration cancels the caller's registration. Repeat calls are
// no-ops.
func (h *EventHandler) CancelRegistration(c *fiber.Ctx) error {
	slug := c.Params("slug")
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	if err := h.registrations.Cancel(slug, userID); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to cancel registration")
	}

	return response.OK(c, fiber.Map{"message": "Registration cancelled"})
}

// ListRegistrations returns every registration for the event. Restricted to
// the event team.
func (h *EventHandler) ListRegistrations(c *fiber.Ctx) error {
	slug := c.Params("slug")

	_, allowed, err := h.canManage(c, slug)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to load event")
	}
	if !allowed {
		return response.Forbidden(c, "Only the event team can view registrations")
	}

	rows, err := h.registrations.ListForEvent(slug)
	if err != nil {
		return response.InternalServerError(c, "Failed to list registrations")
	}
	return response.OK(c, rows)
}

// CheckInRequest identifies the attendee being checked in
type CheckInRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// CheckIn marks an attendee present. Restricted to the event team.
func (h *EventHandler) CheckIn(c *fiber.Ctx) error {
	slug := c.Params("slug")

	_, allowed, err := h.canManage(c, slug)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to load event")
	}
	if !allowed {
		return response.Forbidden(c, "Only the event team can check attendees in")
	}

	var req CheckInRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return response.BadRequest(c, "user_id is required")
	}

	registration, err := h.registrations.CheckIn(slug, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrRegistrationNotFound):
			return response.NotFound(c, "Registration not found")
		case errors.Is(err, services.ErrRegistrationNotEligible):
			return response.BadRequest(c, "Registration is not eligible for check-in")
		default:
			return response.InternalServerError(c, "Failed to check in")
		}
	}

	return response.OK(c, registration)
}
