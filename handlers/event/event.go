package event

import (
	"errors"
	"strings"

	"github.com/campusflow/api/model"
	"github.com/campusflow/api/services"
	"github.com/campusflow/api/services/spaces"
	"github.com/campusflow/api/utils/middleware"
	"github.com/campusflow/api/utils/response"
	"github.com/campusflow/api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EventHandler handles the event surface: CRUD, composition, registrations,
// and the per-event content modules
type EventHandler struct {
	db            *gorm.DB
	events        *services.EventService
	composer      *services.ComposerService
	registrations *services.RegistrationService
	content       *services.ContentService
	teams         *services.TeamService
	storage       *spaces.Client
	validator     *validation.Validator
}

// NewEventHandler creates a new event handler
func NewEventHandler(db *gorm.DB, events *services.EventService, composer *services.ComposerService, storage *spaces.Client) *EventHandler {
	return &EventHandler{
		db:            db,
		events:        events,
		composer:      composer,
		registrations: services.NewRegistrationService(db),
		content:       services.NewContentService(db),
		teams:         services.NewTeamService(db),
		storage:       storage,
		validator:     validation.NewValidator(),
	}
}

// canManage reports whether the caller may mutate the event: its organizer,
// an assigned head or coordinator, or a platform admin
func (h *EventHandler) canManage(c *fiber.Ctx, slug string) (*model.Event, bool, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, false, nil
	}

	event, err := h.events.GetBySlug(slug)
	if err != nil {
		return nil, false, err
	}

	if user.Role == model.RoleAdmin || event.OrganizerID == user.ID {
		return event, true, nil
	}

	var held int64
	err = h.db.Model(&model.EventRole{}).
		Where("event_id = ? AND user_id = ? AND role IN ?",
			event.ID, user.ID, []string{model.EventRoleHead, model.EventRoleCoordinator}).
		Count(&held).Error
	if err != nil {
		return nil, false, err
	}
	return event, held > 0, nil
}

// List returns event summaries matching the query filters
func (h *EventHandler) List(c *fiber.Ctx) error {
	filter := services.EventFilter{
		Status:     c.Query("status"),
		EventType:  c.Query("type"),
		Department: c.Query("department"),
		Tag:        c.Query("tag"),
		Search:     c.Query("search"),
	}

	// unauthenticated browsing only sees the public lifecycle states
	if _, ok := middleware.GetUser(c); !ok && filter.Status == "" {
		filter.PublicOnly = true
	}

	events, err := h.events.List(filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}
	return response.OK(c, events)
}

// Get returns the composed event detail for its microsite
func (h *EventHandler) Get(c *fiber.Ctx) error {
	detail, err := h.composer.Compose(c.Params("slug"))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to load event")
	}

	// draft events are only visible to those who can manage them
	if detail.Status == model.EventStatusDraft {
		if _, allowed, err := h.canManage(c, detail.Slug); err != nil || !allowed {
			return response.NotFound(c, "Event not found")
		}
	}

	return response.OK(c, detail)
}

// Create creates a draft event owned by the caller
func (h *EventHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var input services.CreateEventInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(input); err != nil {
		return response.BadRequest(c, validation.FormatValidationErrors(err))
	}

	event, err := h.events.Create(user.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTheme):
			return response.BadRequest(c, "Theme is incomplete: all colors and fonts are required")
		case strings.Contains(err.Error(), "duplicate key"):
			return response.Conflict(c, "An event with this slug already exists")
		default:
			return response.BadRequest(c, err.Error())
		}
	}

	return response.Created(c, event)
}

// Update applies a partial update to an event
func (h *EventHandler) Update(c *fiber.Ctx) error {
	slug := c.Params("slug")

	_, allowed, err := h.canManage(c, slug)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to load event")
	}
	if !allowed {
		return response.Forbidden(c, "Only the event team can update this event")
	}

	var input services.UpdateEventInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	event, err := h.events.Update(slug, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, services.ErrNoUpdates):
			return response.BadRequest(c, "No updatable fields provided")
		case errors.Is(err, services.ErrInvalidTheme):
			return response.BadRequest(c, "Theme is incomplete: all colors and fonts are required")
		default:
			return response.BadRequest(c, err.Error())
		}
	}

	return response.OK(c, event)
}
