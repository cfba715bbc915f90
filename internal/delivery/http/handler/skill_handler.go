package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"pathexplorer/internal/delivery/http/middleware"
	"pathexplorer/internal/pkg/response"
	"pathexplorer/internal/usecase"
)

type SkillHandler struct {
	uc usecase.SkillCatalogUsecase
}

type catalogItemResponse struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Employees int    `json:"employees"`
	Roles     int    `json:"roles"`
}

func NewSkillHandler(uc usecase.SkillCatalogUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/skills", h.List)
}

// List serves the skill name catalog used for autocomplete. Query: type, q,
// limit.
func (h *SkillHandler) List(c fiber.Ctx) error {
	limit, err := intQuery(c, "limit")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}

	items, err := h.uc.ListCatalog(c.Context(), usecase.CatalogQuery{
		Type:   c.Query("type"),
		Prefix: c.Query("q"),
		Limit:  limit,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSkillType):
			return middleware.NewAppError(fiber.StatusBadRequest, "type must be hard or soft", nil, err)
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "limit must be 1-100", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}

	res := make([]catalogItemResponse, 0, len(items))
	for _, it := range items {
		res = append(res, catalogItemResponse{Name: it.Name, Type: string(it.Type), Employees: it.Employees, Roles: it.Roles})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
