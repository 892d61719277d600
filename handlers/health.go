package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Ping responds to liveness probes
func Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "pong",
	})
}
