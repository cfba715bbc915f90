package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"pathexplorer/internal/config"
	"pathexplorer/internal/delivery/http/handler"
	"pathexplorer/internal/delivery/http/middleware"
	"pathexplorer/internal/delivery/http/routes"
	v1 "pathexplorer/internal/delivery/http/routes/v1"
	"pathexplorer/internal/domain/user"
	"pathexplorer/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application on top of an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	go c.Hub.Run()

	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(logger.Named("access"))
	app.Use(accessMw.Middleware())

	// Inside the access log so the logged status is the rendered one.
	errMw := middleware.NewErrorMiddleware(logger.Named("http"))
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	deps := map[string]handler.Pinger{"postgres": c.DB}
	if c.Redis != nil {
		deps["redis"] = c.Redis
	}

	cfg := c.Config.Signup
	authMw := middleware.NewAuthMiddleware(c.JWT)
	// A nil Limiter keeps the windows in the limiter's own memory store.
	signupLimit := middleware.NewRateLimit(c.Limiter, "signup", cfg.RateLimit, cfg.RateLimitWindow)
	authLimit := middleware.NewRateLimit(c.Limiter, "auth", cfg.RateLimit, cfg.RateLimitWindow)

	registry := routes.NewRegistry(
		handler.NewHealthHandler(deps),
		ws.NewHandler(c.Hub, c.Logger.Named("ws")).HandleRecommendationsWS,
		v1.Handlers{
			Auth:          handler.NewAuthHandler(c.Auth),
			Signup:        handler.NewSignupHandler(c.Signup, c.Schema),
			User:          handler.NewUserHandler(c.Users),
			EmployeeSkill: handler.NewEmployeeSkillHandler(c.EmployeeSkill),
			ProjectRole:   handler.NewProjectRoleHandler(c.ProjectRole),
			Compatibility: handler.NewCompatibilityHandler(c.Compatibility),
			Assignment:    handler.NewAssignmentHandler(c.Assignments),
			Skill:         handler.NewSkillHandler(c.SkillCatalog),
		},
		v1.Guards{
			Auth:        authMw.Middleware(),
			Staff:       middleware.RequireRole(string(user.RoleManager), string(user.RoleTFS)),
			Manager:     middleware.RequireRole(string(user.RoleManager)),
			TFS:         middleware.RequireRole(string(user.RoleTFS)),
			AuthLimit:   authLimit,
			SignupLimit: signupLimit,
		},
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
