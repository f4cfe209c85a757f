package handlers

import (
	"fmt"

	"storeadmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:userId/:orderId", h.HandleGetOrder)
	orderRoutes.Patch("/:userId/:orderId/status", h.HandleUpdateOrderStatus)
}

// HandleGetOrders lists every order, newest first. The q query parameter
// filters by customer name, order ID or status.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAllOrders(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch orders")
	}
	return c.JSON(services.FilterOrders(orders, c.Query("q")))
}

// HandleGetOrder retrieves a single order of a user.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("userId"), c.Params("orderId"))
	if err != nil {
		return respondError(c, err, "Failed to fetch order")
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus sets the status of a single order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var updateData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return invalidBody(c, err)
	}

	orderID := c.Params("orderId")
	order, err := h.service.SetOrderStatus(c.UserContext(), c.Params("userId"), orderID, updateData.Status)
	if err != nil {
		return respondError(c, err, "Failed to update status")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, order.OrderStatus),
		"order":   order,
	})
}
