package adminlist

import (
	"context"
	"net"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func startAPI(t *testing.T) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) != "Bearer secret" {
			return c.Status(401).JSON(fiber.Map{"message": "Unauthenticated."})
		}
		return c.Next()
	})
	app.Get("/api/category", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"data": []category{{ID: 1, Name: c.Query("search") + "|" + c.Query("sort") + "|" + c.Query("page")}},
			"meta": fiber.Map{"current_page": 2, "last_page": 2, "per_page": 10, "total": 11},
		})
	})
	app.Post("/api/category/deleteMany", func(c *fiber.Ctx) error {
		var req struct {
			IDs []uint `json:"ids"`
		}
		if err := c.BodyParser(&req); err != nil {
			return err
		}
		if len(req.IDs) == 0 {
			return c.Status(422).JSON(fiber.Map{"message": "The ids field is required.", "errors": fiber.Map{"ids": []string{"The ids field is required."}}})
		}
		return c.JSON(fiber.Map{"message": "ok"})
	})
	app.Delete("/api/category/:id", func(c *fiber.Ctx) error {
		return c.Status(409).JSON(fiber.Map{"message": "in use"})
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestClient(t *testing.T) {
	base := startAPI(t)
	ctx := context.Background()
	client := NewClient[category](base+"/", "category", "secret")

	res, err := client.Fetch(ctx, State{Page: 2, Sort: "-name", Search: "bo"})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "bo|-name|2", res.Data[0].Name)
	assert.Equal(t, 2, res.Meta.CurrentPage)
	assert.Equal(t, int64(11), res.Meta.Total)

	require.NoError(t, client.DeleteMany(ctx, []uint{1, 2}))

	err = client.DeleteMany(ctx, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, []string{"The ids field is required."}, apiErr.Errors["ids"])

	err = client.Delete(ctx, 5)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "in use", apiErr.Error())

	_, err = NewClient[category](base, "category", "wrong").Fetch(ctx, State{Page: 1})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}
