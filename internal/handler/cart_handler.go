package handler

import (
	"go-storefront/internal/middleware"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	service service.CartService
}

func NewCartHandler(s service.CartService) *CartHandler {
	return &CartHandler{service: s}
}

// GET /api/cart
func (h *CartHandler) Index(c *fiber.Ctx) error {
	items, err := h.service.Items(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, items)
}

// GET /api/cart/:id
func (h *CartHandler) Show(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	item, err := h.service.Get(c.UserContext(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, item)
}

// Store adds to the cart, merging with an existing line
// POST /api/cart
func (h *CartHandler) Store(c *fiber.Ctx) error {
	var req service.CartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	item, err := h.service.Add(c.UserContext(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, item)
}

// PUT /api/cart/:id
func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.CartUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	item, err := h.service.Update(c.UserContext(), middleware.CurrentUser(c).ID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, item)
}

// DELETE /api/cart/:id
func (h *CartHandler) Destroy(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Remove(c.UserContext(), middleware.CurrentUser(c).ID, id); err != nil {
		return respondError(c, err)
	}
	return message(c, "Item removed from cart.")
}
