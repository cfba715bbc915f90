package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"pathexplorer/internal/database"
	"pathexplorer/internal/database/postgres"
	"pathexplorer/internal/domain/project"
	"pathexplorer/internal/domain/skill"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectNameTaken   = errors.New("project name already exists")
	ErrRoleNameTaken      = errors.New("role name already exists in project")
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleSkillNotFound  = errors.New("role skill not found")
	ErrRoleSkillDuplicate = errors.New("role skill already exists")
)

type ProjectRoleRepository interface {
	ProjectExists(ctx context.Context, projectID uuid.UUID) (bool, error)
	ListProjects(ctx context.Context) ([]project.Project, error)
	FindProjectByID(ctx context.Context, projectID uuid.UUID) (project.Project, error)
	CreateProject(ctx context.Context, p project.Project) (project.Project, error)
	UpdateProject(ctx context.Context, p project.Project) (project.Project, error)
	CreateRole(ctx context.Context, role project.Role) (project.Role, error)
	UpdateRole(ctx context.Context, role project.Role) (project.Role, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]project.Role, error)
	FindByID(ctx context.Context, roleID uuid.UUID) (project.Role, error)
	AddSkill(ctx context.Context, s skill.RoleSkill) (skill.RoleSkill, error)
	DeleteSkill(ctx context.Context, roleID uuid.UUID, name string) error
}

type PostgresProjectRoleRepository struct {
	db database.DB
}

func NewPostgresProjectRoleRepository(db database.DB) *PostgresProjectRoleRepository {
	return &PostgresProjectRoleRepository{db: db}
}

func (r *PostgresProjectRoleRepository) ProjectExists(ctx context.Context, projectID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, projectID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

const projectColumns = `id, name, client, description, start_date, end_date, employees_required, manager_id, created_at`

func scanProject(row database.Row) (project.Project, error) {
	var (
		p          project.Project
		start, end *time.Time
		manager    *uuid.UUID
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Client, &p.Description, &start, &end, &p.EmployeesRequired, &manager, &p.CreatedAt); err != nil {
		return project.Project{}, err
	}
	if start != nil {
		p.StartDate = *start
	}
	if end != nil {
		p.EndDate = *end
	}
	if manager != nil {
		p.ManagerID = *manager
	}
	return p, nil
}

// ListProjects returns every project, newest first.
func (r *PostgresProjectRoleRepository) ListProjects(ctx context.Context) ([]project.Project, error) {
	rows, err := r.db.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProjectRoleRepository) FindProjectByID(ctx context.Context, projectID uuid.UUID) (project.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, projectID))
	if err != nil {
		if postgres.IsNoRows(err) {
			return project.Project{}, ErrProjectNotFound
		}
		return project.Project{}, err
	}
	return p, nil
}

func (r *PostgresProjectRoleRepository) CreateProject(ctx context.Context, p project.Project) (project.Project, error) {
	out, err := scanProject(r.db.QueryRow(ctx,
		`INSERT INTO projects (id, name, client, description, start_date, end_date, employees_required, manager_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+projectColumns,
		p.ID, p.Name, p.Client, p.Description, p.StartDate, p.EndDate, p.EmployeesRequired, nullableID(p.ManagerID),
	))
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return project.Project{}, ErrProjectNameTaken
		}
		return project.Project{}, err
	}
	return out, nil
}

// UpdateProject replaces the editable fields. The owning manager is kept.
func (r *PostgresProjectRoleRepository) UpdateProject(ctx context.Context, p project.Project) (project.Project, error) {
	out, err := scanProject(r.db.QueryRow(ctx,
		`UPDATE projects
		 SET name = $2, client = $3, description = $4, start_date = $5, end_date = $6, employees_required = $7
		 WHERE id = $1
		 RETURNING `+projectColumns,
		p.ID, p.Name, p.Client, p.Description, p.StartDate, p.EndDate, p.EmployeesRequired,
	))
	if err != nil {
		if postgres.IsNoRows(err) {
			return project.Project{}, ErrProjectNotFound
		}
		if postgres.IsUniqueViolation(err) {
			return project.Project{}, ErrProjectNameTaken
		}
		return project.Project{}, err
	}
	return out, nil
}

func (r *PostgresProjectRoleRepository) CreateRole(ctx context.Context, role project.Role) (project.Role, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO project_roles (id, project_id, name, description, feedback)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, project_id, name, description, feedback`,
		role.ID, role.ProjectID, role.Name, role.Description, role.Feedback,
	)
	var out project.Role
	if err := row.Scan(&out.ID, &out.ProjectID, &out.Name, &out.Description, &out.Feedback); err != nil {
		if postgres.IsUniqueViolation(err) {
			return project.Role{}, ErrRoleNameTaken
		}
		return project.Role{}, err
	}
	out.Skills = []skill.RoleSkill{}
	return out, nil
}

// UpdateRole rewrites name, description and feedback, then reloads the role
// with its skills.
func (r *PostgresProjectRoleRepository) UpdateRole(ctx context.Context, role project.Role) (project.Role, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE project_roles SET name = $2, description = $3, feedback = $4 WHERE id = $1`,
		role.ID, role.Name, role.Description, role.Feedback,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return project.Role{}, ErrRoleNameTaken
		}
		return project.Role{}, err
	}
	if affected == 0 {
		return project.Role{}, ErrRoleNotFound
	}
	return r.FindByID(ctx, role.ID)
}

func nullableID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}

// FindByProjectID returns the project's roles in creation order, each with its
// required skills.
func (r *PostgresProjectRoleRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]project.Role, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, project_id, name, description, feedback
		 FROM project_roles
		 WHERE project_id = $1
		 ORDER BY created_at ASC, id ASC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]project.Role, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var role project.Role
		if err := rows.Scan(&role.ID, &role.ProjectID, &role.Name, &role.Description, &role.Feedback); err != nil {
			return nil, err
		}
		role.Skills = []skill.RoleSkill{}
		roles = append(roles, role)
		ids = append(ids, role.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return roles, nil
	}

	skills, err := r.skillsByRoleIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		if s, ok := skills[roles[i].ID]; ok {
			roles[i].Skills = s
		}
	}
	return roles, nil
}

func (r *PostgresProjectRoleRepository) FindByID(ctx context.Context, roleID uuid.UUID) (project.Role, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, project_id, name, description, feedback FROM project_roles WHERE id = $1`,
		roleID,
	)
	var role project.Role
	if err := row.Scan(&role.ID, &role.ProjectID, &role.Name, &role.Description, &role.Feedback); err != nil {
		if postgres.IsNoRows(err) {
			return project.Role{}, ErrRoleNotFound
		}
		return project.Role{}, err
	}

	skills, err := r.skillsByRoleIDs(ctx, []uuid.UUID{roleID})
	if err != nil {
		return project.Role{}, err
	}
	role.Skills = skills[roleID]
	if role.Skills == nil {
		role.Skills = []skill.RoleSkill{}
	}
	return role, nil
}

func (r *PostgresProjectRoleRepository) AddSkill(ctx context.Context, s skill.RoleSkill) (skill.RoleSkill, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO project_role_skills (id, role_id, name, type, level)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, role_id, name, type, level`,
		s.ID, s.RoleID, s.Name, string(s.Type), s.Level,
	)
	var out skill.RoleSkill
	var typ string
	if err := row.Scan(&out.ID, &out.RoleID, &out.Name, &typ, &out.Level); err != nil {
		if postgres.IsUniqueViolation(err) {
			return skill.RoleSkill{}, ErrRoleSkillDuplicate
		}
		return skill.RoleSkill{}, err
	}
	out.Type = skill.Type(typ)
	return out, nil
}

// DeleteSkill removes a role skill by name, compared case-insensitively.
func (r *PostgresProjectRoleRepository) DeleteSkill(ctx context.Context, roleID uuid.UUID, name string) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM project_role_skills WHERE role_id = $1 AND lower(name) = lower($2)`,
		roleID, name,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRoleSkillNotFound
	}
	return nil
}

func (r *PostgresProjectRoleRepository) skillsByRoleIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]skill.RoleSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, role_id, name, type, level
		 FROM project_role_skills
		 WHERE role_id = ANY($1)
		 ORDER BY created_at ASC, name ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uuid.UUID][]skill.RoleSkill{}
	for rows.Next() {
		var s skill.RoleSkill
		var typ string
		if err := rows.Scan(&s.ID, &s.RoleID, &s.Name, &typ, &s.Level); err != nil {
			return nil, err
		}
		s.Type = skill.Type(typ)
		out[s.RoleID] = append(out[s.RoleID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
