package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/pkg/config"
)

var errServerFailure = errors.New("handler responded with a server error")

// CircuitBreaker opens after the configured share of requests end in a 5xx,
// answering 503 until the breaker half-opens again.
func CircuitBreaker(cfg config.CircuitBreakerConfig, log *zap.Logger) fiber.Handler {
	threshold := cfg.FailureThreshold
	if threshold <= 0 {
		threshold = 0.6
	}
	minRequests := cfg.MaxRequests
	if minRequests == 0 {
		minRequests = 3
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "evstation-api",
		MaxRequests: minRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && failureRatio >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return func(c *fiber.Ctx) error {
		var handlerErr error
		_, err := cb.Execute(func() (interface{}, error) {
			handlerErr = c.Next()
			if handlerErr != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
				return nil, errServerFailure
			}
			return nil, nil
		})

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Service temporarily unavailable",
			})
		}

		return handlerErr
	}
}
