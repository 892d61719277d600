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

// CreateTeam forms a team led by the caller
func (h *EventHandler) CreateTeam(c *fiber.Ctx) error {
	slug := c.Params("slug")
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var input services.CreateTeamInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(input); err != nil {
		return response.BadRequest(c, validation.FormatValidationErrors(err))
	}

	team, err := h.teams.CreateTeam(slug, userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrTeamsNotEnabled):
			return response.BadRequest(c, "Teams are not enabled for this event")
		case errors.Is(err, services.ErrNotRegistered):
			return response.BadRequest(c, "Register for the event before forming a team")
		case errors.Is(err, services.ErrAlreadyOnTeam):
			return response.Conflict(c, "Already on a team for this event")
		case errors.Is(err, services.ErrTeamNameTaken):
			return response.Conflict(c, "A team with this name already exists")
		default:
			return response.InternalServerError(c, "Failed to create team")
		}
	}
	return response.Created(c, team)
}

// JoinTeam adds the caller to an existing team
func (h *EventHandler) JoinTeam(c *fiber.Ctx) error {
	slug := c.Params("slug")
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	teamID, err := strconv.ParseUint(c.Params("teamId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid team id")
	}

	member, err := h.teams.JoinTeam(slug, uint(teamID), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrTeamNotFound):
			return response.NotFound(c, "Team not found")
		case errors.Is(err, services.ErrTeamsNotEnabled):
			return response.BadRequest(c, "Teams are not enabled for this event")
		case errors.Is(err, services.ErrNotRegistered):
			return response.BadRequest(c, "Register for the event before joining a team")
		case errors.Is(err, services.ErrAlreadyOnTeam):
			return response.Conflict(c, "Already on a team for this event")
		case errors.Is(err, services.ErrTeamFull):
			return response.Conflict(c, "Team is full")
		default:
			return response.InternalServerError(c, "Failed to join team")
		}
	}
	return response.Created(c, member)
}
