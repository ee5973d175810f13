package handler

import (
	"go-storefront/internal/middleware"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AttributeHandler struct {
	service service.AttributeService
}

func NewAttributeHandler(s service.AttributeService) *AttributeHandler {
	return &AttributeHandler{service: s}
}

func (h *AttributeHandler) Index(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), listParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *AttributeHandler) Show(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	attribute, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, attribute)
}

func (h *AttributeHandler) Store(c *fiber.Ctx) error {
	var req service.AttributeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	attribute, err := h.service.Create(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return created(c, attribute)
}

func (h *AttributeHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.AttributeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	attribute, err := h.service.Update(c.UserContext(), id, &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return data(c, attribute)
}

// Destroy answers 409 while a variant still uses the attribute
func (h *AttributeHandler) Destroy(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id, middleware.Actor(c)); err != nil {
		return respondError(c, err)
	}
	return message(c, "Attribute deleted successfully.")
}
