package event

import (
	"errors"
	"strconv"

	"github.com/campusflow/api/services"
	"github.com/campusflow/api/utils/middleware"
	"github.com/campusflow/api/utils/response"
	"github.com/campusflow/api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

func (h *EventHandler) requireEventTeam(c *fiber.Ctx, slug string) error {
	_, allowed, err := h.canManage(c, slug)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to load event")
	}
	if !allowed {
		return response.Forbidden(c, "Only the event team can do this")
	}
	return nil
}

// CreateAnnouncement posts an announcement. Restricted to the event team.
func (h *EventHandler) CreateAnnouncement(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := h.requireEventTeam(c, slug); err != nil {
		return err
	}

	var input services.CreateAnnouncementInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(input); err != nil {
		return response.BadRequest(c, validation.FormatValidationErrors(err))
	}

	announcement, err := h.content.CreateAnnouncement(slug, input)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.BadRequest(c, err.Error())
	}
	return response.Created(c, announcement)
}

// CreateScheduleItem adds an agenda entry. Restricted to the event team.
func (h *EventHandler) CreateScheduleItem(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := h.requireEventTeam(c, slug); err != nil {
		return err
	}

	var input services.CreateScheduleItemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(input); err != nil {
		return response.BadRequest(c, validation.FormatValidationErrors(err))
	}

	item, err := h.content.CreateScheduleItem(slug, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrScheduleBadTimes):
			return response.BadRequest(c, "End time must be after start time")
		default:
			return response.BadRequest(c, err.Error())
		}
	}
	return response.Created(c, item)
}

// CreatePoll opens a poll. Restricted to the event team.
func (h *EventHandler) CreatePoll(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := h.requireEventTeam(c, slug); err != nil {
		return err
	}

	var input services.CreatePollInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(input); err != nil {
		return response.BadRequest(c, validation.FormatValidationErrors(err))
	}

	poll, err := h.content.CreatePoll(slug, input)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.BadRequest(c, err.Error())
	}
	return response.Created(c, poll)
}

// VoteRequest selects a poll option
type VoteRequest struct {
	OptionIndex *int `json:"option_index" validate:"required"`
}

// Vote casts the caller's vote in a poll
func (h *EventHandler) Vote(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	pollID, err := strconv.ParseUint(c.Params("pollId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid poll id")
	}

	var req VoteRequest
	if err := c.BodyParser(&req); err != nil || req.OptionIndex == nil {
		return response.BadRequest(c, "option_index is required")
	}

	vote, err := h.content.Vote(c.Params("slug"), uint(pollID), userID, *req.OptionIndex)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrPollNotFound):
			return response.NotFound(c, "Poll not found")
		case errors.Is(err, services.ErrPollClosed):
			return response.BadRequest(c, "Poll is closed")
		case errors.Is(err, services.ErrInvalidOption):
			return response.BadRequest(c, "Option index out of range")
		case errors.Is(err, services.ErrAlreadyVoted):
			return response.Conflict(c, "Already voted in this poll")
		default:
			return response.InternalServerError(c, "Failed to record vote")
		}
	}
	return response.Created(c, vote)
}

// ClosePoll deactivates a poll. Restricted to the event team.
func (h *EventHandler) ClosePoll(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := h.requireEventTeam(c, slug); err != nil {
		return err
	}

	pollID, err := strconv.ParseUint(c.Params("pollId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid poll id")
	}

	if err := h.content.ClosePoll(slug, uint(pollID)); err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrPollNotFound):
			return response.NotFound(c, "Poll not found")
		default:
			return response.InternalServerError(c, "Failed to close poll")
		}
	}
	return response.OK(c, fiber.Map{"message": "Poll closed"})
}

// AssignRole gives a user an event role. Restricted to the event team.
func (h *EventHandler) AssignRole(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := h.requireEventTeam(c, slug); err != nil {
		return err
	}

	var input services.AssignRoleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(input); err != nil {
		return response.BadRequest(c, validation.FormatValidationErrors(err))
	}

	role, err := h.content.AssignRole(slug, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrRoleAlreadyHeld):
			return response.Conflict(c, "User already holds a role for this event")
		default:
			return response.BadRequest(c, err.Error())
		}
	}
	return response.Created(c, role)
}
