package handler

import (
	"go-storefront/internal/middleware"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	service service.CategoryService
}

func NewCategoryHandler(s service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: s}
}

// Index lists categories
// GET /api/category?page=&sort=&search=&type=
func (h *CategoryHandler) Index(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), listParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GET /api/category/:id
func (h *CategoryHandler) Show(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	category, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, category)
}

// POST /api/category
func (h *CategoryHandler) Store(c *fiber.Ctx) error {
	var req service.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	category, err := h.service.Create(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return created(c, category)
}

// PUT /api/category/:id
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	category, err := h.service.Update(c.UserContext(), id, &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return data(c, category)
}

// DELETE /api/category/:id
func (h *CategoryHandler) Destroy(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id, middleware.Actor(c)); err != nil {
		return respondError(c, err)
	}
	return message(c, "Category deleted successfully.")
}

// POST /api/category/deleteMany {ids}
func (h *CategoryHandler) DeleteMany(c *fiber.Ctx) error {
	ids, err := parseIDs(c)
	if err != nil {
		return badRequest(c)
	}
	if err := h.service.DeleteMany(c.UserContext(), ids, middleware.Actor(c)); err != nil {
		return respondError(c, err)
	}
	return message(c, "Categories deleted successfully.")
}
