package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ConfirmHeader may carry "true" instead of the confirm query parameter.
const ConfirmHeader = "X-Confirm"

// ConfirmationRequired rejects destructive requests that were not explicitly
// confirmed with ?confirm=true or an X-Confirm: true header.
func ConfirmationRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.EqualFold(c.Query("confirm"), "true") || strings.EqualFold(c.Get(ConfirmHeader), "true") {
			return c.Next()
		}
		return c.Status(fiber.StatusPreconditionRequired).JSON(fiber.Map{
			"message": "This action cannot be undone. Repeat the request with ?confirm=true to proceed.",
		})
	}
}
