package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pathexplorer/internal/domain/project"
	"pathexplorer/internal/domain/skill"
	"pathexplorer/internal/domain/user"
	"pathexplorer/internal/repository"
)

var (
	ErrProjectNotFound          = errors.New("project not found")
	ErrProjectNameTaken         = errors.New("project name already exists")
	ErrInvalidProjectDates      = errors.New("start date must be before end date")
	ErrInvalidEmployeesRequired = errors.New("employees required must be at least 1")
	ErrRoleNotFound             = errors.New("role not found")
	ErrRoleNameTaken            = errors.New("role name already exists in project")
	ErrRoleSkillExists          = errors.New("role skill already exists")
	ErrRoleSkillNotFound        = errors.New("role skill not found")
)

// ProjectInput carries the editable project fields. Dates use
// project.DateLayout.
type ProjectInput struct {
	Name              string
	Client            string
	Description       string
	StartDate         string
	EndDate           string
	EmployeesRequired int
}

func (in ProjectInput) normalize() (project.Project, error) {
	p := project.Project{
		Name:              strings.TrimSpace(in.Name),
		Client:            strings.TrimSpace(in.Client),
		Description:       strings.TrimSpace(in.Description),
		EmployeesRequired: in.EmployeesRequired,
	}
	if p.Name == "" || len(p.Name) > 200 || p.Client == "" || len(p.Client) > 200 || p.Description == "" {
		return project.Project{}, ErrInvalidInput
	}
	if p.EmployeesRequired < 1 {
		return project.Project{}, ErrInvalidEmployeesRequired
	}

	start, err := time.Parse(project.DateLayout, strings.TrimSpace(in.StartDate))
	if err != nil {
		return project.Project{}, ErrInvalidProjectDates
	}
	end, err := time.Parse(project.DateLayout, strings.TrimSpace(in.EndDate))
	if err != nil {
		return project.Project{}, ErrInvalidProjectDates
	}
	if !start.Before(end) {
		return project.Project{}, ErrInvalidProjectDates
	}
	p.StartDate, p.EndDate = start, end
	return p, nil
}

type RoleInput struct {
	Name        string
	Description string
	Feedback    string
}

func (in RoleInput) normalize() (project.Role, error) {
	r := project.Role{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Feedback:    strings.TrimSpace(in.Feedback),
	}
	if r.Name == "" || len(r.Name) > 100 {
		return project.Role{}, ErrInvalidInput
	}
	return r, nil
}

type ProjectRoleUsecase interface {
	ListProjects(ctx context.Context) ([]project.Project, error)
	CreateProject(ctx context.Context, userID uuid.UUID, in ProjectInput) (project.Project, error)
	UpdateProject(ctx context.Context, projectID uuid.UUID, in ProjectInput) (project.Project, error)
	CreateRole(ctx context.Context, projectID uuid.UUID, in RoleInput) (project.Role, error)
	UpdateRole(ctx context.Context, roleID uuid.UUID, in RoleInput) (project.Role, error)
	ListRoles(ctx context.Context, projectID uuid.UUID) ([]project.Role, error)
	ListRoleSkills(ctx context.Context, roleID uuid.UUID) ([]skill.RoleSkill, error)
	AddRoleSkill(ctx context.Context, roleID uuid.UUID, in SkillInput) (skill.RoleSkill, error)
	DeleteRoleSkill(ctx context.Context, roleID uuid.UUID, name string) error
}

type ProjectRole struct {
	users    user.Repository
	repo     repository.ProjectRoleRepository
	notifier RecommendationNotifier
}

func NewProjectRoleUsecase(users user.Repository, repo repository.ProjectRoleRepository, notifier RecommendationNotifier) *ProjectRole {
	return &ProjectRole{users: users, repo: repo, notifier: notifierOrNop(notifier)}
}

func (u *ProjectRole) ListProjects(ctx context.Context) ([]project.Project, error) {
	items, err := u.repo.ListProjects(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

// CreateProject records the caller as the project's manager.
func (u *ProjectRole) CreateProject(ctx context.Context, userID uuid.UUID, in ProjectInput) (project.Project, error) {
	p, err := in.normalize()
	if err != nil {
		return project.Project{}, err
	}
	manager, err := employeeWithRole(ctx, u.users, userID, user.RoleManager)
	if err != nil {
		return project.Project{}, err
	}

	p.ID = uuid.New()
	p.ManagerID = manager.ID
	created, err := u.repo.CreateProject(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNameTaken) {
			return project.Project{}, ErrProjectNameTaken
		}
		return project.Project{}, ErrInternal
	}
	u.notifier.RecommendationsStale(ScopeProject, created.ID)
	return created, nil
}

func (u *ProjectRole) UpdateProject(ctx context.Context, projectID uuid.UUID, in ProjectInput) (project.Project, error) {
	if projectID == uuid.Nil {
		return project.Project{}, ErrProjectNotFound
	}
	p, err := in.normalize()
	if err != nil {
		return project.Project{}, err
	}

	p.ID = projectID
	updated, err := u.repo.UpdateProject(ctx, p)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProjectNotFound):
			return project.Project{}, ErrProjectNotFound
		case errors.Is(err, repository.ErrProjectNameTaken):
			return project.Project{}, ErrProjectNameTaken
		}
		return project.Project{}, ErrInternal
	}
	u.notifier.RecommendationsStale(ScopeProject, updated.ID)
	return updated, nil
}

func (u *ProjectRole) CreateRole(ctx context.Context, projectID uuid.UUID, in RoleInput) (project.Role, error) {
	r, err := in.normalize()
	if err != nil {
		return project.Role{}, err
	}
	if err := u.ensureProject(ctx, projectID); err != nil {
		return project.Role{}, err
	}

	r.ID = uuid.New()
	r.ProjectID = projectID
	created, err := u.repo.CreateRole(ctx, r)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNameTaken) {
			return project.Role{}, ErrRoleNameTaken
		}
		return project.Role{}, ErrInternal
	}
	u.notifier.RecommendationsStale(ScopeRole, created.ID)
	return created, nil
}

func (u *ProjectRole) UpdateRole(ctx context.Context, roleID uuid.UUID, in RoleInput) (project.Role, error) {
	r, err := in.normalize()
	if err != nil {
		return project.Role{}, err
	}
	if roleID == uuid.Nil {
		return project.Role{}, ErrRoleNotFound
	}

	r.ID = roleID
	updated, err := u.repo.UpdateRole(ctx, r)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoleNotFound):
			return project.Role{}, ErrRoleNotFound
		case errors.Is(err, repository.ErrRoleNameTaken):
			return project.Role{}, ErrRoleNameTaken
		}
		return project.Role{}, ErrInternal
	}
	u.notifier.RecommendationsStale(ScopeRole, updated.ID)
	return updated, nil
}

func (u *ProjectRole) ListRoles(ctx context.Context, projectID uuid.UUID) ([]project.Role, error) {
	if err := u.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	roles, err := u.repo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, ErrInternal
	}
	return roles, nil
}

func (u *ProjectRole) ListRoleSkills(ctx context.Context, roleID uuid.UUID) ([]skill.RoleSkill, error) {
	role, err := u.role(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return role.Skills, nil
}

func (u *ProjectRole) AddRoleSkill(ctx context.Context, roleID uuid.UUID, in SkillInput) (skill.RoleSkill, error) {
	name, typ, err := in.normalize()
	if err != nil {
		return skill.RoleSkill{}, err
	}
	role, err := u.role(ctx, roleID)
	if err != nil {
		return skill.RoleSkill{}, err
	}
	for _, s := range role.Skills {
		if strings.EqualFold(s.Name, name) {
			return skill.RoleSkill{}, ErrRoleSkillExists
		}
	}

	created, err := u.repo.AddSkill(ctx, skill.RoleSkill{
		ID:     uuid.New(),
		RoleID: role.ID,
		Name:   name,
		Type:   typ,
		Level:  in.Level,
	})
	if err != nil {
		if errors.Is(err, repository.ErrRoleSkillDuplicate) {
			return skill.RoleSkill{}, ErrRoleSkillExists
		}
		return skill.RoleSkill{}, ErrInternal
	}
	u.notifier.RecommendationsStale(ScopeRole, role.ID)
	return created, nil
}

func (u *ProjectRole) DeleteRoleSkill(ctx context.Context, roleID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidInput
	}
	if _, err := u.role(ctx, roleID); err != nil {
		return err
	}
	if err := u.repo.DeleteSkill(ctx, roleID, name); err != nil {
		if errors.Is(err, repository.ErrRoleSkillNotFound) {
			return ErrRoleSkillNotFound
		}
		return ErrInternal
	}
	u.notifier.RecommendationsStale(ScopeRole, roleID)
	return nil
}

func (u *ProjectRole) role(ctx context.Context, roleID uuid.UUID) (project.Role, error) {
	if roleID == uuid.Nil {
		return project.Role{}, ErrRoleNotFound
	}
	role, err := u.repo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return project.Role{}, ErrRoleNotFound
		}
		return project.Role{}, ErrInternal
	}
	return role, nil
}

func (u *ProjectRole) ensureProject(ctx context.Context, projectID uuid.UUID) error {
	if projectID == uuid.Nil {
		return ErrProjectNotFound
	}
	exists, err := u.repo.ProjectExists(ctx, projectID)
	if err != nil {
		return ErrInternal
	}
	if !exists {
		return ErrProjectNotFound
	}
	return nil
}

// employeeWithRole resolves the caller's employee record and requires role.
func employeeWithRole(ctx context.Context, users user.Repository, userID uuid.UUID, role user.Role) (user.Employee, error) {
	emp, err := employeeByUserID(ctx, users, userID)
	if err != nil {
		return user.Employee{}, err
	}
	if emp.Role != role {
		return user.Employee{}, ErrForbidden
	}
	return emp, nil
}
