package handler

import (
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// GET /api/order
func (h *OrderHandler) Index(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), listParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GET /api/order/:id
func (h *OrderHandler) Show(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, order)
}
