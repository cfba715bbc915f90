package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"pathexplorer/internal/delivery/http/dto"
	"pathexplorer/internal/delivery/http/middleware"
	"pathexplorer/internal/domain/project"
	"pathexplorer/internal/pkg/response"
	"pathexplorer/internal/usecase"
)

type AssignmentHandler struct {
	uc usecase.AssignmentUsecase
}

type assignmentRequest struct {
	RoleID      uuid.UUID `json:"role_id"`
	DeveloperID uuid.UUID `json:"developer_id"`
	Comments    string    `json:"comments"`
}

func NewAssignmentHandler(uc usecase.AssignmentUsecase) *AssignmentHandler {
	return &AssignmentHandler{uc: uc}
}

// RegisterRoutes puts requests behind manager and every decision behind tfs.
func (h *AssignmentHandler) RegisterRoutes(r fiber.Router, manager, tfs fiber.Handler) {
	if r == nil {
		return
	}

	grp := r.Group("/assignments")
	postGuarded(grp, "/", manager, h.Request)
	getGuarded(grp, "/pending", tfs, h.ListPending)
	postGuarded(grp, "/:assignment_id/approve", tfs, h.Approve)
	postGuarded(grp, "/:assignment_id/reject", tfs, h.Reject)
}

func (h *AssignmentHandler) Request(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req assignmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.RequestAssignment(c.Context(), userID, usecase.AssignmentInput{
		RoleID:      req.RoleID,
		DeveloperID: req.DeveloperID,
		Comments:    req.Comments,
	})
	if err != nil {
		return mapAssignmentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, assignmentResponse(created))
}

func (h *AssignmentHandler) ListPending(c fiber.Ctx) error {
	items, err := h.uc.ListPending(c.Context())
	if err != nil {
		return mapAssignmentUsecaseError(err)
	}

	res := make([]dto.PendingAssignmentResponse, 0, len(items))
	for _, p := range items {
		res = append(res, dto.PendingAssignmentResponse{
			AssignmentResponse: assignmentResponse(p.Assignment),
			DeveloperName:      p.DeveloperName,
			ProjectName:        p.ProjectName,
			RoleName:           p.RoleName,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *AssignmentHandler) Approve(c fiber.Ctx) error {
	return h.decide(c, h.uc.ApproveAssignment)
}

func (h *AssignmentHandler) Reject(c fiber.Ctx) error {
	return h.decide(c, h.uc.RejectAssignment)
}

type decideFunc func(ctx context.Context, userID, assignmentID uuid.UUID) (project.Assignment, error)

func (h *AssignmentHandler) decide(c fiber.Ctx, fn decideFunc) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	assignmentID, err := uuid.Parse(c.Params("assignment_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := fn(c.Context(), userID, assignmentID)
	if err != nil {
		return mapAssignmentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, assignmentResponse(a))
}

func assignmentResponse(a project.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:          a.ID,
		RoleID:      a.RoleID,
		ProjectID:   a.ProjectID,
		DeveloperID: a.DeveloperID,
		RequestedBy: optionalID(a.RequestedBy),
		Status:      string(a.Status),
		Comments:    a.Comments,
		DecidedBy:   optionalID(a.DecidedBy),
		DecidedAt:   a.DecidedAt,
		CreatedAt:   a.CreatedAt,
	}
}

func mapAssignmentUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrAssignmentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Assignment not found", nil, err)
	case errors.Is(err, usecase.ErrAssignmentNotPending):
		return middleware.NewAppError(fiber.StatusConflict, "Assignment is not in a pending state", nil, err)
	case errors.Is(err, usecase.ErrAssignmentExists):
		return middleware.NewAppError(fiber.StatusConflict, "Developer already has a pending request for this role", nil, err)
	case errors.Is(err, usecase.ErrRoleFilled):
		return middleware.NewAppError(fiber.StatusConflict, "Role already has an approved assignment", nil, err)
	default:
		return mapProjectRoleUsecaseError(err)
	}
}
