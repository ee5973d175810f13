package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"go-storefront/internal/cache"
	"go-storefront/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth map[string]*model.User

func (s stubAuth) Authenticate(token string) (*model.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.New("bad token")
}

func editor() *model.User {
	u := &model.User{Name: "Ed", Email: "ed@example.com"}
	u.ID = uuid.New()
	u.Role = &model.Role{Code: model.RoleEditor, Privileges: []model.Privilege{{Code: "read-products"}}}
	return u
}

func status(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAuthAndPrivilege(t *testing.T) {
	auth := stubAuth{"good": editor()}

	tests := []struct {
		name      string
		privilege string
		token     string
		want      int
	}{
		{"missing token", "read-products", "", 401},
		{"unknown token", "read-products", "nope", 401},
		{"granted", "read-products", "good", 200},
		{"denied", "delete-products", "good", 403},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", RequireAuth(auth), RequirePrivilege(tt.privilege), func(c *fiber.Ctx) error {
				return c.SendString(Actor(c).Name)
			})
			assert.Equal(t, tt.want, status(t, app, tt.token))
		})
	}
}

func TestOptionalAuthLetsGuestsThrough(t *testing.T) {
	app := fiber.New()
	app.Get("/", OptionalAuth(stubAuth{"good": editor()}), func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.SendStatus(204)
		}
		return c.SendStatus(200)
	})

	assert.Equal(t, 204, status(t, app, ""))
	assert.Equal(t, 204, status(t, app, "nope"))
	assert.Equal(t, 200, status(t, app, "good"))
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	app.Get("/", RateLimit(cache.NewMemory(), 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	assert.Equal(t, 200, status(t, app, ""))
	assert.Equal(t, 200, status(t, app, ""))
	assert.Equal(t, 429, status(t, app, ""))

	open := fiber.New()
	open.Get("/", RateLimit(cache.Nop{}, 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	assert.Equal(t, 200, status(t, open, ""))
	assert.Equal(t, 200, status(t, open, ""))
}
