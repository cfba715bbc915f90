package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"pathexplorer/internal/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness of the process and of each named
// dependency. A failing dependency turns the response into 503.
type HealthHandler struct {
	deps map[string]Pinger
}

func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	out := make(map[string]Pinger, len(deps))
	for name, p := range deps {
		if p != nil {
			out[name] = p
		}
	}
	return &HealthHandler{deps: out}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	checks := make(map[string]string, len(h.deps))
	for name, p := range h.deps {
		if err := p.Ping(ctx); err != nil {
			checks[name] = "down"
			status = fiber.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "degraded", checks)
	}
	return response.Success(c, status, response.MessageOK, checks)
}
