package handler

import (
	"go-storefront/internal/middleware"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TagHandler struct {
	service service.TagService
}

func NewTagHandler(s service.TagService) *TagHandler {
	return &TagHandler{service: s}
}

// Index lists tags, type=all feeds the tag suggestions
// GET /api/tag?page=&sort=&search=&type=
func (h *TagHandler) Index(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), listParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GET /api/tag/:id
func (h *TagHandler) Show(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	tag, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, tag)
}

// POST /api/tag
func (h *TagHandler) Store(c *fiber.Ctx) error {
	var req service.TagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	tag, err := h.service.Create(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return created(c, tag)
}

// PUT /api/tag/:id
func (h *TagHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.TagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	tag, err := h.service.Update(c.UserContext(), id, &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return data(c, tag)
}

// DELETE /api/tag/:id
func (h *TagHandler) Destroy(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id, middleware.Actor(c)); err != nil {
		return respondError(c, err)
	}
	return message(c, "Tag deleted successfully.")
}

// POST /api/tag/deleteMany {ids}
func (h *TagHandler) DeleteMany(c *fiber.Ctx) error {
	ids, err := parseIDs(c)
	if err != nil {
		return badRequest(c)
	}
	if err := h.service.DeleteMany(c.UserContext(), ids, middleware.Actor(c)); err != nil {
		return respondError(c, err)
	}
	return message(c, "Tags deleted successfully.")
}
