package handlers

import (
	"errors"
	"log"

	"storeadmin/internal/services"
	"storeadmin/pkg/docstore"

	"github.com/gofiber/fiber/v2"
)

// respondError maps an operation error to a status code and JSON body. message
// describes the failed action for the generic cases.
func respondError(c *fiber.Ctx, err error, message string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	case errors.Is(err, docstore.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message + ": not found",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message + ": already exists",
			"error":   err.Error(),
		})
	case errors.Is(err, docstore.ErrIndexRequired):
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{
			"message": "The database needs an index for this query. Create the index from the link in the error, wait for it to build, then try again.",
			"error":   err.Error(),
		})
	case errors.Is(err, docstore.ErrUnavailable):
		log.Printf("%s: %v", message, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": message + ". Please try again.",
			"error":   err.Error(),
		})
	default:
		log.Printf("%s: %v", message, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
