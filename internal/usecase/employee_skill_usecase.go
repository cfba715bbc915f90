package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"pathexplorer/internal/domain/skill"
	"pathexplorer/internal/domain/user"
	"pathexplorer/internal/repository"
)

var (
	ErrSkillNotFound     = errors.New("skill not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrInvalidSkillLevel = errors.New("invalid skill level")
	ErrInvalidSkillType  = errors.New("invalid skill type")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
)

type SkillInput struct {
	Name  string
	Type  string
	Level int
}

func (in SkillInput) normalize() (string, skill.Type, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return "", "", ErrInvalidInput
	}
	typ, ok := skill.ParseType(in.Type)
	if !ok {
		return "", "", ErrInvalidSkillType
	}
	if !skill.ValidLevel(in.Level) {
		return "", "", ErrInvalidSkillLevel
	}
	return name, typ, nil
}

type EmployeeSkillUsecase interface {
	ListSkills(ctx context.Context, userID uuid.UUID, typ string) ([]skill.EmployeeSkill, error)
	AddSkill(ctx context.Context, userID uuid.UUID, in SkillInput) (skill.EmployeeSkill, error)
	UpdateSkill(ctx context.Context, userID uuid.UUID, skillID uuid.UUID, in SkillInput) (skill.EmployeeSkill, error)
	DeleteSkill(ctx context.Context, userID uuid.UUID, skillID uuid.UUID) error
}

type EmployeeSkill struct {
	users    user.Repository
	repo     repository.EmployeeSkillRepository
	notifier RecommendationNotifier
}

func NewEmployeeSkillUsecase(users user.Repository, repo repository.EmployeeSkillRepository, notifier RecommendationNotifier) *EmployeeSkill {
	return &EmployeeSkill{users: users, repo: repo, notifier: notifierOrNop(notifier)}
}

func (u *EmployeeSkill) ListSkills(ctx context.Context, userID uuid.UUID, typ string) ([]skill.EmployeeSkill, error) {
	emp, err := u.employee(ctx, userID)
	if err != nil {
		return nil, err
	}

	var filter skill.Type
	if strings.TrimSpace(typ) != "" {
		t, ok := skill.ParseType(typ)
		if !ok {
			return nil, ErrInvalidSkillType
		}
		filter = t
	}

	items, err := u.repo.FindByEmployeeID(ctx, emp.ID, filter)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *EmployeeSkill) AddSkill(ctx context.Context, userID uuid.UUID, in SkillInput) (skill.EmployeeSkill, error) {
	name, typ, err := in.normalize()
	if err != nil {
		return skill.EmployeeSkill{}, err
	}
	emp, err := u.employee(ctx, userID)
	if err != nil {
		return skill.EmployeeSkill{}, err
	}

	created, err := u.repo.Create(ctx, skill.EmployeeSkill{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		Name:       name,
		Type:       typ,
		Level:      in.Level,
	})
	if err != nil {
		return skill.EmployeeSkill{}, ErrInternal
	}
	u.notifier.RecommendationsStale(ScopeEmployee, emp.ID)
	return created, nil
}

func (u *EmployeeSkill) UpdateSkill(ctx context.Context, userID uuid.UUID, skillID uuid.UUID, in SkillInput) (skill.EmployeeSkill, error) {
	if skillID == uuid.Nil {
		return skill.EmployeeSkill{}, ErrInvalidInput
	}
	name, typ, err := in.normalize()
	if err != nil {
		return skill.EmployeeSkill{}, err
	}
	emp, err := u.employee(ctx, userID)
	if err != nil {
		return skill.EmployeeSkill{}, err
	}

	updated, err := u.repo.Update(ctx, skill.EmployeeSkill{
		ID:         skillID,
		EmployeeID: emp.ID,
		Name:       name,
		Type:       typ,
		Level:      in.Level,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeSkillNotFound) {
			return skill.EmployeeSkill{}, ErrSkillNotFound
		}
		return skill.EmployeeSkill{}, ErrInternal
	}
	u.notifier.RecommendationsStale(ScopeEmployee, emp.ID)
	return updated, nil
}

func (u *EmployeeSkill) DeleteSkill(ctx context.Context, userID uuid.UUID, skillID uuid.UUID) error {
	if skillID == uuid.Nil {
		return ErrInvalidInput
	}
	emp, err := u.employee(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, skillID, emp.ID); err != nil {
		if errors.Is(err, repository.ErrEmployeeSkillNotFound) {
			return ErrSkillNotFound
		}
		return ErrInternal
	}
	u.notifier.RecommendationsStale(ScopeEmployee, emp.ID)
	return nil
}

func (u *EmployeeSkill) employee(ctx context.Context, userID uuid.UUID) (user.Employee, error) {
	return employeeByUserID(ctx, u.users, userID)
}

func employeeByUserID(ctx context.Context, users user.Repository, userID uuid.UUID) (user.Employee, error) {
	if userID == uuid.Nil {
		return user.Employee{}, ErrUnauthorized
	}
	emp, err := users.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrEmployeeNotFound) {
			return user.Employee{}, ErrEmployeeNotFound
		}
		return user.Employee{}, ErrInternal
	}
	return emp, nil
}
