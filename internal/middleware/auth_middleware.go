package middleware

import (
	"strings"

	"go-storefront/internal/model"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LocalUser is the Locals key holding the authenticated *model.User
const LocalUser = "user"

// Authenticator resolves a bearer token to a user
type Authenticator interface {
	Authenticate(tokenString string) (*model.User, error)
}

// RequireAuth validates the bearer token and sets the user in Locals
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"message": "Unauthenticated."})
		}

		user, err := auth.Authenticate(token)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"message": "Unauthenticated."})
		}

		setUser(c, user)
		return c.Next()
	}
}

// OptionalAuth sets the user when a valid token is sent and otherwise lets
// the request through as a guest.
func OptionalAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if user, err := auth.Authenticate(token); err == nil {
				setUser(c, user)
			}
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func setUser(c *fiber.Ctx, user *model.User) {
	c.Locals(LocalUser, user)
}

// CurrentUser returns the authenticated user, or nil for guests
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(LocalUser).(*model.User)
	return user
}

// Actor describes the caller for audit fields and change events
func Actor(c *fiber.Ctx) service.Actor {
	user := CurrentUser(c)
	if user == nil {
		return service.Actor{}
	}
	return service.Actor{ID: user.ID.String(), Name: user.Name, Email: user.Email}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return RequireAnyPrivilege(requiredPrivilege)
}

// RequireAnyPrivilege checks if the user's role grants at least one of the
// privileges. It must run after RequireAuth.
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "This action is unauthorized."})
		}
		for _, code := range requiredPrivileges {
			if user.HasPrivilege(code) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
		})
	}
}
