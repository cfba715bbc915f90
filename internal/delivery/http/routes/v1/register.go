package v1

import (
	"github.com/gofiber/fiber/v3"

	"pathexplorer/internal/delivery/http/handler"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Signup        *handler.SignupHandler
	User          *handler.UserHandler
	EmployeeSkill *handler.EmployeeSkillHandler
	ProjectRole   *handler.ProjectRoleHandler
	Compatibility *handler.CompatibilityHandler
	Assignment    *handler.AssignmentHandler
	Skill         *handler.SkillHandler
}

// Guards are the middlewares placed in front of route groups. Nil guards are
// skipped.
type Guards struct {
	Auth        fiber.Handler
	Staff       fiber.Handler
	Manager     fiber.Handler
	TFS         fiber.Handler
	AuthLimit   fiber.Handler
	SignupLimit fiber.Handler
}

// Register mounts public routes first; everything registered after the
// protected group requires a valid access token.
func Register(r fiber.Router, h Handlers, g Guards) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"), g.AuthLimit)
	}
	if h.Signup != nil {
		h.Signup.RegisterRoutes(r, g.SignupLimit)
	}

	protected := r
	if g.Auth != nil {
		protected = r.Group("", g.Auth)
	}

	RegisterUsers(protected, h.User, h.EmployeeSkill)
	RegisterProjects(protected, h.ProjectRole, h.Compatibility, h.Assignment, g)
	if h.Skill != nil {
		h.Skill.RegisterRoutes(protected)
	}
}
