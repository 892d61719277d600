package platform

import (
	"errors"
	"strconv"

	"github.com/campusflow/api/registry"
	"github.com/campusflow/api/services"
	"github.com/campusflow/api/services/gemini"
	"github.com/campusflow/api/utils/response"
	"github.com/campusflow/api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PlatformHandler serves the platform surface: the module catalog, theme
// presets, analytics, recommendations, and AI theme generation
type PlatformHandler struct {
	registry        *registry.Registry
	analytics       *services.AnalyticsService
	recommendations *services.RecommendationService
	gemini          *gemini.Client
	validator       *validation.Validator
}

// NewPlatformHandler creates a new platform handler
func NewPlatformHandler(db *gorm.DB, reg *registry.Registry, geminiClient *gemini.Client) *PlatformHandler {
	return &PlatformHandler{
		registry:        reg,
		analytics:       services.NewAnalyticsService(db),
		recommendations: services.NewRecommendationService(db),
		gemini:          geminiClient,
		validator:       validation.NewValidator(),
	}
}

// Modules returns the platform module catalog
func (h *PlatformHandler) Modules(c *fiber.Ctx) error {
	return response.OK(c, h.registry.Modules())
}

// Themes returns the theme presets keyed by name
func (h *PlatformHandler) Themes(c *fiber.Ctx) error {
	return response.OK(c, h.registry.Themes())
}

// Stats returns the platform analytics snapshot. Admin only.
func (h *PlatformHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.analytics.Stats()
	if err != nil {
		return response.InternalServerError(c, "Failed to compute stats")
	}
	return response.OK(c, stats)
}

// Recommendations returns ranked events for a user
func (h *PlatformHandler) Recommendations(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	events, err := h.recommendations.Recommend(uint(userID))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to compute recommendations")
	}
	return response.OK(c, events)
}

// GenerateTheme produces a custom theme from questionnaire answers
func (h *PlatformHandler) GenerateTheme(c *fiber.Ctx) error {
	var answers gemini.ThemeAnswers
	if err := c.BodyParser(&answers); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(answers); err != nil {
		return response.BadRequest(c, validation.FormatValidationErrors(err))
	}

	theme, err := h.gemini.GenerateTheme(c.Context(), answers)
	if err != nil {
		switch {
		case errors.Is(err, gemini.ErrNotConfigured):
			return response.BadGateway(c, "Theme generation is not configured")
		case errors.Is(err, gemini.ErrMalformedOutput):
			return response.BadGateway(c, "Theme generation produced an unusable result")
		default:
			return response.BadGateway(c, "Theme generation failed")
		}
	}
	return response.OK(c, theme)
}
