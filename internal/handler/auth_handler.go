package handler

import (
	"go-storefront/internal/middleware"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Login handles user authentication
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}

// Register creates a storefront customer account
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, user.ToResponse())
}

// Me returns the signed-in user with role and privileges
// GET /api/user
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, service.ErrUnauthenticated)
	}

	response, err := h.authService.Me(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}
