package handler

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"pathexplorer/internal/delivery/http/dto"
	"pathexplorer/internal/delivery/http/middleware"
	"pathexplorer/internal/domain/project"
	"pathexplorer/internal/domain/skill"
	"pathexplorer/internal/pkg/response"
	"pathexplorer/internal/usecase"
)

type ProjectRoleHandler struct {
	uc usecase.ProjectRoleUsecase
}

type projectRequest struct {
	Name              string `json:"name"`
	Client            string `json:"client"`
	Description       string `json:"description"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	EmployeesRequired int    `json:"employees_required"`
}

func (r projectRequest) input() usecase.ProjectInput {
	return usecase.ProjectInput{
		Name:              r.Name,
		Client:            r.Client,
		Description:       r.Description,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		EmployeesRequired: r.EmployeesRequired,
	}
}

type roleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Feedback    string `json:"feedback"`
}

func (r roleRequest) input() usecase.RoleInput {
	return usecase.RoleInput{Name: r.Name, Description: r.Description, Feedback: r.Feedback}
}

func NewProjectRoleHandler(uc usecase.ProjectRoleUsecase) *ProjectRoleHandler {
	return &ProjectRoleHandler{uc: uc}
}

// RegisterRoutes mounts role browsing for every authenticated employee,
// project listing and role skill edits behind staff, and project and role
// writes behind manager.
func (h *ProjectRoleHandler) RegisterRoutes(r fiber.Router, staff, manager fiber.Handler) {
	if r == nil {
		return
	}

	getGuarded(r, "/projects", staff, h.ListProjects)
	postGuarded(r, "/projects", manager, h.CreateProject)
	putGuarded(r, "/projects/:project_id", manager, h.UpdateProject)

	r.Get("/projects/:project_id/roles", h.ListRoles)
	postGuarded(r, "/projects/:project_id/roles", manager, h.CreateRole)
	putGuarded(r, "/roles/:role_id", manager, h.UpdateRole)

	grp := r.Group("/roles/:role_id/skills")
	grp.Get("/", h.ListSkills)
	postGuarded(grp, "/", staff, h.AddSkill)
	deleteGuarded(grp, "/:name", staff, h.DeleteSkill)
}

func (h *ProjectRoleHandler) ListProjects(c fiber.Ctx) error {
	items, err := h.uc.ListProjects(c.Context())
	if err != nil {
		return mapProjectRoleUsecaseError(err)
	}

	res := make([]dto.ProjectResponse, 0, len(items))
	for _, p := range items {
		res = append(res, projectResponse(p))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ProjectRoleHandler) CreateProject(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req projectRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.CreateProject(c.Context(), userID, req.input())
	if err != nil {
		return mapProjectRoleUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, projectResponse(created))
}

func (h *ProjectRoleHandler) UpdateProject(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req projectRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.UpdateProject(c.Context(), projectID, req.input())
	if err != nil {
		return mapProjectRoleUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, projectResponse(updated))
}

func (h *ProjectRoleHandler) CreateRole(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req roleRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.CreateRole(c.Context(), projectID, req.input())
	if err != nil {
		return mapProjectRoleUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, projectRoleResponse(created))
}

func (h *ProjectRoleHandler) UpdateRole(c fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("role_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req roleRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.UpdateRole(c.Context(), roleID, req.input())
	if err != nil {
		return mapProjectRoleUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, projectRoleResponse(updated))
}

func (h *ProjectRoleHandler) ListRoles(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	roles, err := h.uc.ListRoles(c.Context(), projectID)
	if err != nil {
		return mapProjectRoleUsecaseError(err)
	}

	res := make([]dto.ProjectRoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, projectRoleResponse(r))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ProjectRoleHandler) ListSkills(c fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("role_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	skills, err := h.uc.ListRoleSkills(c.Context(), roleID)
	if err != nil {
		return mapProjectRoleUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, roleSkillResponses(skills))
}

func (h *ProjectRoleHandler) AddSkill(c fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("role_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req skillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.AddRoleSkill(c.Context(), roleID, req.input())
	if err != nil {
		return mapProjectRoleUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, roleSkillResponse(created))
}

func (h *ProjectRoleHandler) DeleteSkill(c fiber.Ctx) error {
	roleID, err := uuid.Parse(c.Params("role_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.DeleteRoleSkill(c.Context(), roleID, name); err != nil {
		return mapProjectRoleUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func projectResponse(p project.Project) dto.ProjectResponse {
	res := dto.ProjectResponse{
		ID:                p.ID,
		Name:              p.Name,
		Client:            p.Client,
		Description:       p.Description,
		EmployeesRequired: p.EmployeesRequired,
		ManagerID:         optionalID(p.ManagerID),
	}
	if !p.StartDate.IsZero() {
		res.StartDate = p.StartDate.Format(project.DateLayout)
	}
	if !p.EndDate.IsZero() {
		res.EndDate = p.EndDate.Format(project.DateLayout)
	}
	return res
}

func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func projectRoleResponse(r project.Role) dto.ProjectRoleResponse {
	return dto.ProjectRoleResponse{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Name:        r.Name,
		Description: r.Description,
		Feedback:    r.Feedback,
		Skills:      roleSkillResponses(r.Skills),
	}
}

func roleSkillResponse(s skill.RoleSkill) dto.RoleSkillResponse {
	return dto.RoleSkillResponse{ID: s.ID, Name: s.Name, Type: string(s.Type), Level: s.Level}
}

func roleSkillResponses(in []skill.RoleSkill) []dto.RoleSkillResponse {
	out := make([]dto.RoleSkillResponse, 0, len(in))
	for _, s := range in {
		out = append(out, roleSkillResponse(s))
	}
	return out
}

func mapProjectRoleUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrProjectNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Project not found", nil, err)
	case errors.Is(err, usecase.ErrRoleNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Role not found", nil, err)
	case errors.Is(err, usecase.ErrRoleSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Role skill not found", nil, err)
	case errors.Is(err, usecase.ErrProjectNameTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Project name already exists", nil, err)
	case errors.Is(err, usecase.ErrRoleNameTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Role name already exists in this project", nil, err)
	case errors.Is(err, usecase.ErrInvalidProjectDates):
		return middleware.NewAppError(fiber.StatusBadRequest, "Start date must be before end date", nil, err)
	case errors.Is(err, usecase.ErrInvalidEmployeesRequired):
		return middleware.NewAppError(fiber.StatusBadRequest, "Employees required must be at least 1", nil, err)
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Employee not found", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrRoleSkillExists):
		return middleware.NewAppError(fiber.StatusConflict, "Role already requires this skill", nil, err)
	case errors.Is(err, usecase.ErrInvalidSkillLevel):
		return middleware.NewAppError(fiber.StatusBadRequest, "Skill level must be between 0 and 100", nil, err)
	case errors.Is(err, usecase.ErrInvalidSkillType):
		return middleware.NewAppError(fiber.StatusBadRequest, "Skill type must be hard or soft", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
