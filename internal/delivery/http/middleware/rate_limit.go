package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
)

// NewRateLimit caps requests per client IP within a fixed window. The prefix
// separates independent limits sharing one storage; a nil storage keeps the
// windows in the limiter's own memory store. A non-positive max disables it.
func NewRateLimit(storage fiber.Storage, prefix string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		return func(c fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Storage:    storage,
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c fiber.Ctx) string {
			return "rl:" + prefix + ":" + c.IP()
		},
		LimitReached: func(fiber.Ctx) error {
			return NewAppError(fiber.StatusTooManyRequests, "Too many requests", nil, nil)
		},
	})
}
