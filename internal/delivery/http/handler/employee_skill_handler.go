package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"pathexplorer/internal/delivery/http/dto"
	"pathexplorer/internal/delivery/http/middleware"
	"pathexplorer/internal/domain/skill"
	"pathexplorer/internal/pkg/response"
	"pathexplorer/internal/usecase"
)

type EmployeeSkillHandler struct {
	uc usecase.EmployeeSkillUsecase
}

type skillRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Level int    `json:"level"`
}

func (r skillRequest) input() usecase.SkillInput {
	return usecase.SkillInput{Name: r.Name, Type: r.Type, Level: r.Level}
}

func NewEmployeeSkillHandler(uc usecase.EmployeeSkillUsecase) *EmployeeSkillHandler {
	return &EmployeeSkillHandler{uc: uc}
}

func (h *EmployeeSkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/me/skills")
	grp.Get("/", h.List)
	grp.Post("/", h.Add)
	grp.Put("/:id", h.Update)
	grp.Delete("/:id", h.Delete)
}

func (h *EmployeeSkillHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListSkills(c.Context(), userID, c.Query("type"))
	if err != nil {
		return mapEmployeeSkillUsecaseError(err)
	}

	res := make([]dto.EmployeeSkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, employeeSkillResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *EmployeeSkillHandler) Add(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req skillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.AddSkill(c.Context(), userID, req.input())
	if err != nil {
		return mapEmployeeSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, employeeSkillResponse(created))
}

func (h *EmployeeSkillHandler) Update(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req skillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.UpdateSkill(c.Context(), userID, id, req.input())
	if err != nil {
		return mapEmployeeSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, employeeSkillResponse(updated))
}

func (h *EmployeeSkillHandler) Delete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.DeleteSkill(c.Context(), userID, id); err != nil {
		return mapEmployeeSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func employeeSkillResponse(s skill.EmployeeSkill) dto.EmployeeSkillResponse {
	return dto.EmployeeSkillResponse{ID: s.ID, Name: s.Name, Type: string(s.Type), Level: s.Level}
}

func mapEmployeeSkillUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidSkillLevel):
		return middleware.NewAppError(fiber.StatusBadRequest, "Skill level must be between 0 and 100", nil, err)
	case errors.Is(err, usecase.ErrInvalidSkillType):
		return middleware.NewAppError(fiber.StatusBadRequest, "Skill type must be hard or soft", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Employee not found", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
