package handler

import (
	"go-storefront/internal/middleware"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the caller's profile
// GET /api/profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, service.ErrUnauthenticated)
	}

	profile, err := h.userService.GetProfile(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, profile)
}

// UpdateProfile changes name, email and optionally the password
// POST /api/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, service.ErrUnauthenticated)
	}

	var req service.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	profile, err := h.userService.UpdateProfile(user.ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully.",
		"data":    profile,
	})
}
