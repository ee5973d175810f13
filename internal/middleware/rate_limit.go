package middleware

import (
	"log"
	"strconv"
	"time"

	"go-storefront/internal/cache"

	"github.com/gofiber/fiber/v2"
)

// RateLimit allows limit requests per client IP and route within period.
// It fails open: without a cache, or when the cache errors, requests pass.
func RateLimit(c cache.Cache, limit int, period time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if c == nil || !c.Enabled() {
			return ctx.Next()
		}

		key := "rate_limit:" + ctx.Route().Path + ":" + ctx.IP()
		count, err := c.Incr(ctx.UserContext(), key, period)
		if err != nil {
			log.Printf("rate limit: %v", err)
			return ctx.Next()
		}

		if count > int64(limit) {
			ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(period.Seconds())))
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too Many Attempts."})
		}
		return ctx.Next()
	}
}
