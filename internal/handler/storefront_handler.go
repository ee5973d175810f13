package handler

import (
	"go-storefront/internal/middleware"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// StorefrontHandler serves the public catalog and checkout
type StorefrontHandler struct {
	storefront service.StorefrontService
	orders     service.OrderService
}

func NewStorefrontHandler(storefront service.StorefrontService, orders service.OrderService) *StorefrontHandler {
	return &StorefrontHandler{storefront: storefront, orders: orders}
}

// GET /api/user/category
func (h *StorefrontHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.storefront.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return data(c, categories)
}

// GET /api/user/product?category=<slug>
func (h *StorefrontHandler) Products(c *fiber.Ctx) error {
	page, err := h.storefront.Products(c.UserContext(), listParams(c), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GET /api/user/product/:slug
func (h *StorefrontHandler) Product(c *fiber.Ctx) error {
	product, err := h.storefront.Product(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return data(c, product)
}

// Checkout places an order; a signed-in caller's cart is cleared
// POST /api/user/checkout
func (h *StorefrontHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	var userID *uuid.UUID
	if user := middleware.CurrentUser(c); user != nil {
		userID = &user.ID
	}

	order, err := h.orders.Checkout(c.UserContext(), &req, userID)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, order)
}
