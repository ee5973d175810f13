package handler

import (
	"time"

	"go-storefront/internal/catalog"
	"go-storefront/internal/listquery"
	"go-storefront/internal/middleware"
	"go-storefront/internal/model"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DiscountHandler struct {
	service service.DiscountService
	now     func() time.Time
}

func NewDiscountHandler(s service.DiscountService) *DiscountHandler {
	return &DiscountHandler{service: s, now: time.Now}
}

// Index lists discounts, optionally only those of ?product_id=
// GET /api/discount
func (h *DiscountHandler) Index(c *fiber.Ctx) error {
	productID := uint(c.QueryInt("product_id", 0))
	page, err := h.service.List(c.UserContext(), listParams(c), productID)
	if err != nil {
		return respondError(c, err)
	}

	now := h.now()
	shaped, err := listquery.Map(page, func(d model.Discount) (catalog.DiscountResource, error) {
		return catalog.ShapeDiscount(d, now), nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(shaped)
}

func (h *DiscountHandler) Show(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	discount, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, catalog.ShapeDiscount(*discount, h.now()))
}

func (h *DiscountHandler) Store(c *fiber.Ctx) error {
	var req service.DiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	discount, err := h.service.Create(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return created(c, catalog.ShapeDiscount(*discount, h.now()))
}

func (h *DiscountHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.DiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	discount, err := h.service.Update(c.UserContext(), id, &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return data(c, catalog.ShapeDiscount(*discount, h.now()))
}

func (h *DiscountHandler) Destroy(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id, middleware.Actor(c)); err != nil {
		return respondError(c, err)
	}
	return message(c, "Discount deleted successfully.")
}
