package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"pathexplorer/internal/database"
	"pathexplorer/internal/database/postgres"
	"pathexplorer/internal/domain/project"
)

var (
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrAssignmentDuplicate  = errors.New("assignment already pending")
	ErrAssignmentNotPending = errors.New("assignment is not pending")
	ErrRoleFilled           = errors.New("role already has an approved assignment")
)

type AssignmentRepository interface {
	Create(ctx context.Context, a project.Assignment) (project.Assignment, error)
	FindByID(ctx context.Context, id uuid.UUID) (project.Assignment, error)
	Decide(ctx context.Context, id uuid.UUID, status project.AssignmentStatus, decidedBy uuid.UUID) (project.Assignment, error)
	ListPending(ctx context.Context) ([]project.PendingAssignment, error)
}

type PostgresAssignmentRepository struct {
	db database.DB
}

func NewPostgresAssignmentRepository(db database.DB) *PostgresAssignmentRepository {
	return &PostgresAssignmentRepository{db: db}
}

const assignmentColumns = `id, role_id, project_id, developer_id, requested_by, status, comments, decided_by, decided_at, created_at`

func scanAssignment(row database.Row, extra ...any) (project.Assignment, error) {
	var (
		a                      project.Assignment
		status                 string
		requestedBy, decidedBy *uuid.UUID
		decidedAt              *time.Time
	)
	dest := append([]any{&a.ID, &a.RoleID, &a.ProjectID, &a.DeveloperID, &requestedBy, &status, &a.Comments, &decidedBy, &decidedAt, &a.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return project.Assignment{}, err
	}
	a.Status = project.AssignmentStatus(status)
	if requestedBy != nil {
		a.RequestedBy = *requestedBy
	}
	if decidedBy != nil {
		a.DecidedBy = *decidedBy
	}
	a.DecidedAt = decidedAt
	return a, nil
}

func (r *PostgresAssignmentRepository) Create(ctx context.Context, a project.Assignment) (project.Assignment, error) {
	out, err := scanAssignment(r.db.QueryRow(ctx,
		`INSERT INTO assignment_requests (id, role_id, project_id, developer_id, requested_by, status, comments)
		 VALUES ($1, $2, $3, $4, $5, 'pending', $6)
		 RETURNING `+assignmentColumns,
		a.ID, a.RoleID, a.ProjectID, a.DeveloperID, nullableID(a.RequestedBy), a.Comments,
	))
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return project.Assignment{}, ErrAssignmentDuplicate
		}
		return project.Assignment{}, err
	}
	return out, nil
}

func (r *PostgresAssignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (project.Assignment, error) {
	out, err := scanAssignment(r.db.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignment_requests WHERE id = $1`, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return project.Assignment{}, ErrAssignmentNotFound
		}
		return project.Assignment{}, err
	}
	return out, nil
}

// Decide moves a pending request to status. Only a pending row matches, so
// the second of two concurrent decisions gets ErrAssignmentNotPending.
func (r *PostgresAssignmentRepository) Decide(ctx context.Context, id uuid.UUID, status project.AssignmentStatus, decidedBy uuid.UUID) (project.Assignment, error) {
	out, err := scanAssignment(r.db.QueryRow(ctx,
		`UPDATE assignment_requests
		 SET status = $2, decided_by = $3, decided_at = now()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+assignmentColumns,
		id, string(status), nullableID(decidedBy),
	))
	if err == nil {
		return out, nil
	}
	if postgres.IsUniqueViolation(err) {
		return project.Assignment{}, ErrRoleFilled
	}
	if !postgres.IsNoRows(err) {
		return project.Assignment{}, err
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return project.Assignment{}, err
	}
	return project.Assignment{}, ErrAssignmentNotPending
}

// ListPending returns open requests oldest first.
func (r *PostgresAssignmentRepository) ListPending(ctx context.Context) ([]project.PendingAssignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.role_id, a.project_id, a.developer_id, a.requested_by, a.status, a.comments,
		        a.decided_by, a.decided_at, a.created_at,
		        concat_ws(' ', e.name, e.last_name_1, NULLIF(e.last_name_2, '')), p.name, pr.name
		 FROM assignment_requests a
		 JOIN employees e ON e.id = a.developer_id
		 JOIN projects p ON p.id = a.project_id
		 JOIN project_roles pr ON pr.id = a.role_id
		 WHERE a.status = 'pending'
		 ORDER BY a.created_at ASC, a.id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]project.PendingAssignment, 0)
	for rows.Next() {
		var p project.PendingAssignment
		a, err := scanAssignment(rows, &p.DeveloperName, &p.ProjectName, &p.RoleName)
		if err != nil {
			return nil, err
		}
		p.Assignment = a
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
