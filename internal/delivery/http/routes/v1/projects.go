package v1

import (
	"github.com/gofiber/fiber/v3"

	"pathexplorer/internal/delivery/http/handler"
)

func RegisterProjects(r fiber.Router, roleHandler *handler.ProjectRoleHandler, compatHandler *handler.CompatibilityHandler, assignmentHandler *handler.AssignmentHandler, g Guards) {
	if r == nil {
		return
	}
	if roleHandler != nil {
		roleHandler.RegisterRoutes(r, g.Staff, g.Manager)
	}
	if compatHandler != nil {
		compatHandler.RegisterRoutes(r, g.Staff)
	}
	if assignmentHandler != nil {
		assignmentHandler.RegisterRoutes(r, g.Manager, g.TFS)
	}
}
