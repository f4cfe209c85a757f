package handlers

import (
	"errors"
	"log"

	"storeadmin/internal/models"
	"storeadmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/auth/login", h.HandleLogin)
}

// RegisterProtectedRoutes registers routes that need a signed-in operator.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/auth/register", h.HandleRegister)
}

// HandleRegister creates another operator account.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var admin models.AdminAccount
	if err := c.BodyParser(&admin); err != nil {
		return invalidBody(c, err)
	}

	if err := h.authService.RegisterAdmin(&admin); err != nil {
		return respondError(c, err, "Could not register admin")
	}

	// For security, do not return the password hash
	admin.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Admin registered successfully",
		"admin":   admin,
	})
}

// HandleLogin handles operator sign-in and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	token, err := h.authService.SignIn(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Printf("Failed sign-in for %s", req.Email)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid email or password. Please try again.",
			})
		}
		return respondError(c, err, "Could not sign in")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
