package routes

import (
	"github.com/gofiber/fiber/v3"

	"pathexplorer/internal/delivery/http/handler"
	v1 "pathexplorer/internal/delivery/http/routes/v1"
)

type Registry struct {
	health    *handler.HealthHandler
	websocket fiber.Handler
	v1        v1.Handlers
	guards    v1.Guards
}

func NewRegistry(health *handler.HealthHandler, websocket fiber.Handler, h v1.Handlers, g v1.Guards) *Registry {
	if health == nil {
		health = handler.NewHealthHandler(nil)
	}
	return &Registry{health: health, websocket: websocket, v1: h, guards: g}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWebsocket(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerWebsocket(app *fiber.App) {
	if r.websocket == nil {
		return
	}
	app.Get("/ws/recommendations", r.websocket)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1, r.guards)
}
