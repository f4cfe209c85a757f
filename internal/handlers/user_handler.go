package handlers

import (
	"storeadmin/internal/middleware"
	"storeadmin/internal/models"
	"storeadmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for customer accounts.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", middleware.ConfirmationRequired(), h.HandleDeleteUser)
}

// HandleGetUsers lists users, optionally filtered by the phone query parameter.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext(), c.Query("phone"))
	if err != nil {
		return respondError(c, err, "Failed to fetch users")
	}
	return c.JSON(users)
}

// HandleGetUser retrieves a single user.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to fetch user")
	}
	return c.JSON(user)
}

// HandleCreateUser creates a user.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return invalidBody(c, err)
	}
	if err := h.service.CreateUser(c.UserContext(), &user); err != nil {
		return respondError(c, err, "Failed to create user")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleUpdateUser updates a user's editable fields.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return invalidBody(c, err)
	}
	if err := h.service.UpdateUser(c.UserContext(), c.Params("id"), &user); err != nil {
		return respondError(c, err, "Failed to update user")
	}
	return c.JSON(user)
}

// HandleDeleteUser deletes a user.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, err, "Failed to delete user")
	}
	return c.JSON(fiber.Map{
		"message": "User " + id + " deleted successfully",
	})
}
