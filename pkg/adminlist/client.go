package adminlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Client talks to the list endpoints of one REST resource, e.g. "category"
type Client[T any] struct {
	BaseURL  string
	Resource string
	Token    string
	Timeout  time.Duration
}

func NewClient[T any](baseURL, resource, token string) *Client[T] {
	return &Client[T]{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Resource: resource,
		Token:    token,
		Timeout:  10 * time.Second,
	}
}

// APIError is a non-2xx response; Errors holds field messages on a 422
type APIError struct {
	Status  int                 `json:"-"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Fetch loads GET /api/<resource>?<state>
func (c *Client[T]) Fetch(ctx context.Context, s State) (Result[T], error) {
	var out Result[T]
	if err := ctx.Err(); err != nil {
		return out, err
	}

	url := c.endpoint("")
	if q := s.Encode(); q != "" {
		url += "?" + q
	}
	err := c.do(fiber.Get(url), &out)
	return out, err
}

// DeleteMany posts {ids} to /api/<resource>/deleteMany
func (c *Client[T]) DeleteMany(ctx context.Context, ids []uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a := fiber.Post(c.endpoint("/deleteMany")).JSON(fiber.Map{"ids": ids})
	return c.do(a, nil)
}

func (c *Client[T]) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.do(fiber.Delete(c.endpoint(fmt.Sprintf("/%d", id))), nil)
}

func (c *Client[T]) endpoint(suffix string) string {
	return c.BaseURL + "/api/" + c.Resource + suffix
}

func (c *Client[T]) do(a *fiber.Agent, out any) error {
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.Token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.Token)
	}
	if c.Timeout > 0 {
		a.Timeout(c.Timeout)
	}

	status, body, errs := a.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status}
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}
