package routes

import (
	"github.com/gofiber/fiber/v3"

	v1 "pathexplorer/internal/delivery/http/routes/v1"
)

func RegisterV1(r fiber.Router, h v1.Handlers, g v1.Guards) {
	if r == nil {
		return
	}

	v1.Register(r, h, g)
}
