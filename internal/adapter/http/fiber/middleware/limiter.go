package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/seu-repo/evstation/pkg/config"
)

// RateLimit throttles each client IP to MaxRequests per Window.
func RateLimit(cfg config.RateLimitingConfig) fiber.Handler {
	max := cfg.MaxRequests
	if max <= 0 {
		max = 100
	}
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		},
	})
}
