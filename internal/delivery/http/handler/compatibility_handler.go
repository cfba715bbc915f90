package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"pathexplorer/internal/delivery/http/dto"
	"pathexplorer/internal/delivery/http/middleware"
	"pathexplorer/internal/domain/matching"
	"pathexplorer/internal/pkg/response"
	"pathexplorer/internal/usecase"
)

type CompatibilityHandler struct {
	uc usecase.CompatibilityUsecase
}

func NewCompatibilityHandler(uc usecase.CompatibilityUsecase) *CompatibilityHandler {
	return &CompatibilityHandler{uc: uc}
}

func (h *CompatibilityHandler) RegisterRoutes(r fiber.Router, staff fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/me/projects/:project_id/compatibility", h.Mine)
	getGuarded(r, "/projects/:project_id/employees/:employee_id/compatibility", staff, h.ForEmployee)
	getGuarded(r, "/roles/:role_id/candidates", staff, h.Candidates)
}

func (h *CompatibilityHandler) Mine(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.MyCompatibility(c.Context(), userID, projectID)
	if err != nil {
		return mapCompatibilityUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, roleCompatibilityResponses(items))
}

func (h *CompatibilityHandler) ForEmployee(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	employeeID, err := uuid.Parse(c.Params("employee_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.RoleCompatibility(c.Context(), projectID, employeeID)
	if err != nil {
		return mapCompatibilityUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, roleCompatibilityResponses(items))
}

func (h *CompatibilityHandler) Candidates(c fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("role_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}
	minScore, err := intQuery(c, "min_score")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid min_score", nil, err)
	}

	items, err := h.uc.RecommendCandidates(c.Context(), roleID, limit, minScore)
	if err != nil {
		return mapCompatibilityUsecaseError(err)
	}

	res := make([]dto.CandidateResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.CandidateResponse{
			EmployeeID:      it.Match.EmployeeID,
			Name:            it.Match.Name,
			MatchPercentage: it.Match.MatchPercentage,
			Tier:            string(it.Tier),
			MatchedSkills:   matchedSkillResponses(it.Match.MatchedSkills),
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func intQuery(c fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func roleCompatibilityResponses(items []usecase.RoleCompatibility) []dto.RoleCompatibilityResponse {
	out := make([]dto.RoleCompatibilityResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.RoleCompatibilityResponse{
			RoleID:          it.Role.ID,
			RoleName:        it.Role.Name,
			Description:     it.Role.Description,
			RoleSkills:      roleSkillResponses(it.Role.Skills),
			MatchPercentage: it.Match.MatchPercentage,
			Tier:            string(it.Tier),
			MatchedSkills:   matchedSkillResponses(it.Match.MatchedSkills),
		})
	}
	return out
}

func matchedSkillResponses(in []matching.Skill) []dto.MatchedSkillResponse {
	out := make([]dto.MatchedSkillResponse, 0, len(in))
	for _, s := range in {
		out = append(out, dto.MatchedSkillResponse{Name: s.Name, Type: string(s.Type), Level: s.Level})
	}
	return out
}

func mapCompatibilityUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrProjectNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Project not found", nil, err)
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Employee not found", nil, err)
	case errors.Is(err, usecase.ErrRoleNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Role not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "limit must be 1-50 and min_score 0-100", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
