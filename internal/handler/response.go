package handler

import (
	"errors"
	"log"
	"strconv"

	"go-storefront/internal/catalog"
	"go-storefront/internal/listquery"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto the JSON error envelope
func respondError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": verr.Error(),
			"errors":  verr.Errors,
		})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Resource not found."})
	case errors.Is(err, service.ErrInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "The resource is still in use and cannot be deleted."})
	case errors.Is(err, service.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserInactive):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "This action is unauthorized."})
	case errors.Is(err, catalog.ErrInconsistentVariant):
		// already logged with the product id by the service
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(fiber.Map{"message": ferr.Message})
	}

	log.Printf("%s %s: %v", c.Method(), c.OriginalURL(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body."})
}

func data(c *fiber.Ctx, v any) error {
	return c.JSON(fiber.Map{"data": v})
}

func created(c *fiber.Ctx, v any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": v})
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"message": msg})
}

// listParams reads page, sort, search and type from the query string
func listParams(c *fiber.Ctx) listquery.Params {
	return listquery.Parse(c.Query("page"), c.Query("sort"), c.Query("search"), c.Query("type"))
}

// paramID parses a positive numeric route parameter; anything else is a 404
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrNotFound
	}
	return uint(id), nil
}

// IDsRequest is the body of every deleteMany endpoint
type IDsRequest struct {
	IDs []uint `json:"ids"`
}

func parseIDs(c *fiber.Ctx) ([]uint, error) {
	var req IDsRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, err
	}
	return req.IDs, nil
}
