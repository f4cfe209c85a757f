package middleware

import (
	"errors"
	"log"
	"strings"

	"storeadmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		admin, err := authService.Authenticate(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Invalid or expired token",
					"error":   err.Error(),
				})
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message": "Could not verify the session. Please try again.",
			})
		}

		c.Locals("admin_id", admin.ID)
		c.Locals("email", admin.Email)

		return c.Next()
	}
}

