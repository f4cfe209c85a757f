package handlers

import (
	"storeadmin/internal/middleware"
	"storeadmin/internal/models"
	"storeadmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for categories and their items.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	categories := router.Group("/categories")
	categories.Get("/", h.HandleGetCategories)
	categories.Post("/", h.HandleAddCategory)
	categories.Get("/:id", h.HandleGetCategory)
	categories.Put("/:id", h.HandleUpdateCategory)
	categories.Delete("/:id", middleware.ConfirmationRequired(), h.HandleDeleteCategory)

	categories.Get("/:id/items", h.HandleGetItems)
	categories.Post("/:id/items", h.HandleAddItem)
	categories.Put("/:id/items/:containerId/:itemKey", h.HandleUpdateItem)
	categories.Delete("/:id/items/:containerId/:itemKey", middleware.ConfirmationRequired(), h.HandleDeleteItem)
}

// HandleGetCategories retrieves all categories.
func (h *CatalogHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch categories")
	}
	return c.JSON(categories)
}

// HandleGetCategory retrieves a single category.
func (h *CatalogHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to fetch category")
	}
	return c.JSON(category)
}

// HandleAddCategory creates a category whose ID is derived from its name.
func (h *CatalogHandler) HandleAddCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return invalidBody(c, err)
	}
	if err := h.service.AddCategory(c.UserContext(), &category); err != nil {
		return respondError(c, err, "Error adding category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory updates a category's name and photo.
func (h *CatalogHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return invalidBody(c, err)
	}
	if err := h.service.UpdateCategory(c.UserContext(), c.Params("id"), &category); err != nil {
		return respondError(c, err, "Error updating category")
	}
	return c.JSON(category)
}

// HandleDeleteCategory deletes a category.
func (h *CatalogHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	orphaned, err := h.service.DeleteCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Error deleting category")
	}
	return c.JSON(fiber.Map{
		"message":            "Category " + id + " deleted successfully",
		"orphanedContainers": orphaned,
	})
}

// HandleGetItems lists the items of a category.
func (h *CatalogHandler) HandleGetItems(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Error fetching products")
	}
	items, err := h.service.ListItems(c.UserContext(), category.Name)
	if err != nil {
		return respondError(c, err, "Error fetching products")
	}
	return c.JSON(items)
}

type addItemRequest struct {
	ContainerID string `json:"containerId"`
	models.ProductItem
}

// HandleAddItem adds an item to a category under a generated item key.
func (h *CatalogHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Error adding product")
	}
	record, err := h.service.AddItem(c.UserContext(), category, req.ContainerID, req.ProductItem)
	if err != nil {
		return respondError(c, err, "Error adding product")
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// HandleUpdateItem replaces one item of a container.
func (h *CatalogHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var item models.ProductItem
	if err := c.BodyParser(&item); err != nil {
		return invalidBody(c, err)
	}
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Error updating product")
	}
	record, err := h.service.UpdateItem(c.UserContext(), category.Name, c.Params("containerId"), c.Params("itemKey"), item)
	if err != nil {
		return respondError(c, err, "Error updating product")
	}
	return c.JSON(record)
}

// HandleDeleteItem removes one item of a container.
func (h *CatalogHandler) HandleDeleteItem(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Error deleting item")
	}
	itemKey := c.Params("itemKey")
	if err := h.service.DeleteItem(c.UserContext(), category.Name, c.Params("containerId"), itemKey); err != nil {
		return respondError(c, err, "Error deleting item")
	}
	return c.JSON(fiber.Map{
		"message": "Item " + itemKey + " deleted successfully",
	})
}
