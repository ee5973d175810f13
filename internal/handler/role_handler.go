package handler

import (
	"go-storefront/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// RoleHandler exposes the read-only permission model to the back office
type RoleHandler struct {
	roles      repository.RoleRepository
	privileges repository.PrivilegeRepository
}

func NewRoleHandler(roles repository.RoleRepository, privileges repository.PrivilegeRepository) *RoleHandler {
	return &RoleHandler{roles: roles, privileges: privileges}
}

// GET /api/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roles.FindAll()
	if err != nil {
		return respondError(c, err)
	}
	return data(c, roles)
}

// GetPrivileges lists every grantable code, e.g. "update-categories"
// GET /api/privileges
func (h *RoleHandler) GetPrivileges(c *fiber.Ctx) error {
	privileges, err := h.privileges.FindAll()
	if err != nil {
		return respondError(c, err)
	}
	return data(c, privileges)
}
