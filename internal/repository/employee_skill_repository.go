package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"pathexplorer/internal/database"
	"pathexplorer/internal/database/postgres"
	"pathexplorer/internal/domain/skill"
)

var ErrEmployeeSkillNotFound = errors.New("skill not found")

// Candidate is an employee together with every skill on their profile.
type Candidate struct {
	EmployeeID uuid.UUID
	Name       string
	Skills     []skill.EmployeeSkill
}

type EmployeeSkillRepository interface {
	FindByEmployeeID(ctx context.Context, employeeID uuid.UUID, typ skill.Type) ([]skill.EmployeeSkill, error)
	Create(ctx context.Context, s skill.EmployeeSkill) (skill.EmployeeSkill, error)
	Update(ctx context.Context, s skill.EmployeeSkill) (skill.EmployeeSkill, error)
	Delete(ctx context.Context, id uuid.UUID, employeeID uuid.UUID) error
	FindCandidates(ctx context.Context) ([]Candidate, error)
}

type PostgresEmployeeSkillRepository struct {
	db database.DB
}

func NewPostgresEmployeeSkillRepository(db database.DB) *PostgresEmployeeSkillRepository {
	return &PostgresEmployeeSkillRepository{db: db}
}

// FindByEmployeeID lists skills ordered by name. An empty typ returns both
// kinds.
func (r *PostgresEmployeeSkillRepository) FindByEmployeeID(ctx context.Context, employeeID uuid.UUID, typ skill.Type) ([]skill.EmployeeSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, employee_id, name, type, level, created_at, updated_at
		 FROM employee_skills
		 WHERE employee_id = $1 AND ($2 = '' OR type = $2)
		 ORDER BY name ASC, created_at ASC`,
		employeeID, string(typ),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.EmployeeSkill, 0)
	for rows.Next() {
		s, err := scanEmployeeSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresEmployeeSkillRepository) Create(ctx context.Context, s skill.EmployeeSkill) (skill.EmployeeSkill, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO employee_skills (id, employee_id, name, type, level)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, employee_id, name, type, level, created_at, updated_at`,
		s.ID, s.EmployeeID, s.Name, string(s.Type), s.Level,
	)
	return scanEmployeeSkill(row)
}

func (r *PostgresEmployeeSkillRepository) Update(ctx context.Context, s skill.EmployeeSkill) (skill.EmployeeSkill, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE employee_skills
		 SET name = $3, type = $4, level = $5, updated_at = now()
		 WHERE id = $1 AND employee_id = $2
		 RETURNING id, employee_id, name, type, level, created_at, updated_at`,
		s.ID, s.EmployeeID, s.Name, string(s.Type), s.Level,
	)
	updated, err := scanEmployeeSkill(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return skill.EmployeeSkill{}, ErrEmployeeSkillNotFound
		}
		return skill.EmployeeSkill{}, err
	}
	return updated, nil
}

func (r *PostgresEmployeeSkillRepository) Delete(ctx context.Context, id uuid.UUID, employeeID uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM employee_skills WHERE id = $1 AND employee_id = $2`, id, employeeID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEmployeeSkillNotFound
	}
	return nil
}

// FindCandidates loads every employee with their skills in a single query.
// Employees without skills are included with an empty list.
func (r *PostgresEmployeeSkillRepository) FindCandidates(ctx context.Context) ([]Candidate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.id, e.name || ' ' || e.last_name_1,
		        s.id, COALESCE(s.name, ''), COALESCE(s.type, ''), COALESCE(s.level, 0)
		 FROM employees e
		 LEFT JOIN employee_skills s ON s.employee_id = e.id
		 ORDER BY e.created_at ASC, e.id ASC, s.name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Candidate, 0)
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			empID   uuid.UUID
			name    string
			skillID *uuid.UUID
			sName   string
			sType   string
			sLevel  int
		)
		if err := rows.Scan(&empID, &name, &skillID, &sName, &sType, &sLevel); err != nil {
			return nil, err
		}
		i, ok := index[empID]
		if !ok {
			i = len(out)
			index[empID] = i
			out = append(out, Candidate{EmployeeID: empID, Name: name, Skills: []skill.EmployeeSkill{}})
		}
		if skillID == nil {
			continue
		}
		out[i].Skills = append(out[i].Skills, skill.EmployeeSkill{
			ID:         *skillID,
			EmployeeID: empID,
			Name:       sName,
			Type:       skill.Type(sType),
			Level:      sLevel,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanEmployeeSkill(row database.Row) (skill.EmployeeSkill, error) {
	var s skill.EmployeeSkill
	var typ string
	if err := row.Scan(&s.ID, &s.EmployeeID, &s.Name, &typ, &s.Level, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return skill.EmployeeSkill{}, err
	}
	s.Type = skill.Type(typ)
	return s, nil
}
