package v1

import (
	"github.com/gofiber/fiber/v3"

	"pathexplorer/internal/delivery/http/handler"
)

func RegisterUsers(r fiber.Router, userHandler *handler.UserHandler, employeeSkillHandler *handler.EmployeeSkillHandler) {
	if r == nil {
		return
	}
	if userHandler != nil {
		userHandler.RegisterRoutes(r)
	}
	if employeeSkillHandler != nil {
		employeeSkillHandler.RegisterRoutes(r)
	}
}
