package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"pathexplorer/internal/domain/project"
	"pathexplorer/internal/domain/user"
	"pathexplorer/internal/repository"
)

var (
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrAssignmentExists     = errors.New("assignment already pending")
	ErrAssignmentNotPending = errors.New("assignment is not pending")
	ErrRoleFilled           = errors.New("role already filled")
)

const maxAssignmentComments = 1000

type AssignmentInput struct {
	RoleID      uuid.UUID
	DeveloperID uuid.UUID
	Comments    string
}

type AssignmentUsecase interface {
	RequestAssignment(ctx context.Context, userID uuid.UUID, in AssignmentInput) (project.Assignment, error)
	ApproveAssignment(ctx context.Context, userID, assignmentID uuid.UUID) (project.Assignment, error)
	RejectAssignment(ctx context.Context, userID, assignmentID uuid.UUID) (project.Assignment, error)
	ListPending(ctx context.Context) ([]project.PendingAssignment, error)
}

// Assignment runs staffing requests: a manager asks for a developer on a
// role and a TFS reviewer approves or rejects it.
type Assignment struct {
	users    user.Repository
	roles    repository.ProjectRoleRepository
	repo     repository.AssignmentRepository
	notifier RecommendationNotifier
}

func NewAssignmentUsecase(users user.Repository, roles repository.ProjectRoleRepository, repo repository.AssignmentRepository, notifier RecommendationNotifier) *Assignment {
	return &Assignment{users: users, roles: roles, repo: repo, notifier: notifierOrNop(notifier)}
}

func (u *Assignment) RequestAssignment(ctx context.Context, userID uuid.UUID, in AssignmentInput) (project.Assignment, error) {
	comments := strings.TrimSpace(in.Comments)
	if in.DeveloperID == uuid.Nil || len(comments) > maxAssignmentComments {
		return project.Assignment{}, ErrInvalidInput
	}
	requester, err := employeeWithRole(ctx, u.users, userID, user.RoleManager)
	if err != nil {
		return project.Assignment{}, err
	}

	if in.RoleID == uuid.Nil {
		return project.Assignment{}, ErrRoleNotFound
	}
	role, err := u.roles.FindByID(ctx, in.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return project.Assignment{}, ErrRoleNotFound
		}
		return project.Assignment{}, ErrInternal
	}
	dev, err := u.users.GetEmployeeByID(ctx, in.DeveloperID)
	if err != nil {
		if errors.Is(err, user.ErrEmployeeNotFound) {
			return project.Assignment{}, ErrEmployeeNotFound
		}
		return project.Assignment{}, ErrInternal
	}

	created, err := u.repo.Create(ctx, project.Assignment{
		ID:          uuid.New(),
		RoleID:      role.ID,
		ProjectID:   role.ProjectID,
		DeveloperID: dev.ID,
		RequestedBy: requester.ID,
		Status:      project.AssignmentPending,
		Comments:    comments,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentDuplicate) {
			return project.Assignment{}, ErrAssignmentExists
		}
		return project.Assignment{}, ErrInternal
	}
	return created, nil
}

// ApproveAssignment staffs the developer on the role and tells dashboards
// that both the role and the developer changed.
func (u *Assignment) ApproveAssignment(ctx context.Context, userID, assignmentID uuid.UUID) (project.Assignment, error) {
	a, err := u.decide(ctx, userID, assignmentID, project.AssignmentApproved)
	if err != nil {
		return project.Assignment{}, err
	}
	u.notifier.RecommendationsStale(ScopeRole, a.RoleID)
	u.notifier.RecommendationsStale(ScopeEmployee, a.DeveloperID)
	return a, nil
}

func (u *Assignment) RejectAssignment(ctx context.Context, userID, assignmentID uuid.UUID) (project.Assignment, error) {
	return u.decide(ctx, userID, assignmentID, project.AssignmentRejected)
}

func (u *Assignment) ListPending(ctx context.Context) ([]project.PendingAssignment, error) {
	items, err := u.repo.ListPending(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Assignment) decide(ctx context.Context, userID, assignmentID uuid.UUID, status project.AssignmentStatus) (project.Assignment, error) {
	if assignmentID == uuid.Nil {
		return project.Assignment{}, ErrAssignmentNotFound
	}
	reviewer, err := employeeWithRole(ctx, u.users, userID, user.RoleTFS)
	if err != nil {
		return project.Assignment{}, err
	}

	a, err := u.repo.Decide(ctx, assignmentID, status, reviewer.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAssignmentNotFound):
			return project.Assignment{}, ErrAssignmentNotFound
		case errors.Is(err, repository.ErrAssignmentNotPending):
			return project.Assignment{}, ErrAssignmentNotPending
		case errors.Is(err, repository.ErrRoleFilled):
			return project.Assignment{}, ErrRoleFilled
		}
		return project.Assignment{}, ErrInternal
	}
	return a, nil
}
