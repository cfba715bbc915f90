package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"pathexplorer/internal/domain/matching"
	"pathexplorer/internal/domain/project"
	"pathexplorer/internal/domain/skill"
	"pathexplorer/internal/domain/user"
	"pathexplorer/internal/repository"
)

const (
	DefaultCandidateLimit = 5
	MaxCandidateLimit     = 50
)

// RoleCompatibility is one ranked role of a project for one employee.
type RoleCompatibility struct {
	Role  project.Role
	Match matching.MatchResult
	Tier  matching.MatchTier
}

type CandidateRecommendation struct {
	Match matching.CandidateMatch
	Tier  matching.MatchTier
}

type CompatibilityUsecase interface {
	RoleCompatibility(ctx context.Context, projectID, employeeID uuid.UUID) ([]RoleCompatibility, error)
	MyCompatibility(ctx context.Context, userID, projectID uuid.UUID) ([]RoleCompatibility, error)
	RecommendCandidates(ctx context.Context, roleID uuid.UUID, limit, minScore int) ([]CandidateRecommendation, error)
}

type Compatibility struct {
	users  user.Repository
	skills repository.EmployeeSkillRepository
	roles  repository.ProjectRoleRepository
}

func NewCompatibilityUsecase(users user.Repository, skills repository.EmployeeSkillRepository, roles repository.ProjectRoleRepository) *Compatibility {
	return &Compatibility{users: users, skills: skills, roles: roles}
}

func (u *Compatibility) RoleCompatibility(ctx context.Context, projectID, employeeID uuid.UUID) ([]RoleCompatibility, error) {
	if employeeID == uuid.Nil {
		return nil, ErrEmployeeNotFound
	}
	emp, err := u.users.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, user.ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, ErrInternal
	}
	return u.rankForEmployee(ctx, projectID, emp)
}

func (u *Compatibility) MyCompatibility(ctx context.Context, userID, projectID uuid.UUID) ([]RoleCompatibility, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	emp, err := u.users.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, ErrInternal
	}
	return u.rankForEmployee(ctx, projectID, emp)
}

func (u *Compatibility) rankForEmployee(ctx context.Context, projectID uuid.UUID, emp user.Employee) ([]RoleCompatibility, error) {
	if projectID == uuid.Nil {
		return nil, ErrProjectNotFound
	}
	exists, err := u.roles.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, ErrInternal
	}
	if !exists {
		return nil, ErrProjectNotFound
	}

	roles, err := u.roles.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, ErrInternal
	}
	empSkills, err := u.skills.FindByEmployeeID(ctx, emp.ID, "")
	if err != nil {
		return nil, ErrInternal
	}

	candidate := matching.CandidateProfile{
		EmployeeID: emp.ID,
		Name:       emp.FullName(),
		Skills:     employeeSkillsToEngine(empSkills),
	}
	byID := make(map[uuid.UUID]project.Role, len(roles))
	reqs := make([]matching.RoleRequirement, 0, len(roles))
	for _, r := range roles {
		byID[r.ID] = r
		reqs = append(reqs, roleToEngine(r))
	}

	ranked := matching.RankRoles(candidate, reqs)
	out := make([]RoleCompatibility, 0, len(ranked))
	for _, m := range ranked {
		out = append(out, RoleCompatibility{
			Role:  byID[m.RoleID],
			Match: m,
			Tier:  matching.Tier(m.MatchPercentage),
		})
	}
	return out, nil
}

// RecommendCandidates ranks every employee for the role, drops scores under
// minScore and keeps the first limit entries.
func (u *Compatibility) RecommendCandidates(ctx context.Context, roleID uuid.UUID, limit, minScore int) ([]CandidateRecommendation, error) {
	if roleID == uuid.Nil {
		return nil, ErrRoleNotFound
	}
	if limit == 0 {
		limit = DefaultCandidateLimit
	}
	if limit < 0 || limit > MaxCandidateLimit || minScore < 0 || minScore > 100 {
		return nil, ErrInvalidInput
	}

	role, err := u.roles.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, ErrInternal
	}

	cands, err := u.skills.FindCandidates(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	profiles := make([]matching.CandidateProfile, 0, len(cands))
	for _, c := range cands {
		profiles = append(profiles, matching.CandidateProfile{
			EmployeeID: c.EmployeeID,
			Name:       c.Name,
			Skills:     employeeSkillsToEngine(c.Skills),
		})
	}

	ranked := matching.RankCandidates(roleToEngine(role), profiles)
	out := make([]CandidateRecommendation, 0, limit)
	for _, m := range ranked {
		if m.MatchPercentage < minScore {
			continue
		}
		out = append(out, CandidateRecommendation{Match: m, Tier: matching.Tier(m.MatchPercentage)})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func employeeSkillsToEngine(in []skill.EmployeeSkill) []matching.Skill {
	out := make([]matching.Skill, 0, len(in))
	for _, s := range in {
		out = append(out, matching.Skill{Name: s.Name, Type: matching.SkillType(s.Type), Level: s.Level})
	}
	return out
}

func roleToEngine(r project.Role) matching.RoleRequirement {
	skills := make([]matching.Skill, 0, len(r.Skills))
	for _, s := range r.Skills {
		skills = append(skills, matching.Skill{Name: s.Name, Type: matching.SkillType(s.Type), Level: s.Level})
	}
	return matching.RoleRequirement{
		RoleID:      r.ID,
		Name:        r.Name,
		Description: r.Description,
		Skills:      skills,
	}
}
