package event

import (
	"errors"
	"io"

	"github.com/campusflow/api/services"
	"github.com/campusflow/api/services/spaces"
	"github.com/campusflow/api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// UploadCover replaces the event's cover image. Restricted to the event
// team; requires object storage to be configured.
func (h *EventHandler) UploadCover(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := h.requireEventTeam(c, slug); err != nil {
		return err
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		return response.BadRequest(c, "A 'cover' file is required")
	}
	if fileHeader.Size > spaces.MaxCoverImageSize {
		return response.BadRequest(c, "Cover image must be 5MB or smaller")
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
	url, err := h.storage.UploadCoverImage(c.Context(), slug, contentType, data)
	if err != nil {
		switch {
		case errors.Is(err, spaces.ErrNotConfigured):
			return response.BadGateway(c, "Object storage is not configured")
		case errors.Is(err, spaces.ErrFileTooLarge):
			return response.BadRequest(c, "Cover image must be 5MB or smaller")
		case errors.Is(err, spaces.ErrUnsupportedType):
			return response.BadRequest(c, "Cover image must be JPEG, PNG, or WebP")
		default:
			return response.BadGateway(c, "Failed to upload cover image")
		}
	}

	event, err := h.events.Update(slug, services.UpdateEventInput{CoverImage: &url})
	if err != nil {
		return response.InternalServerError(c, "Failed to save cover image")
	}

	return response.OK(c, event)
}
