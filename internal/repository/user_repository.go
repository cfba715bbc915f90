package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pathexplorer/internal/database"
	"pathexplorer/internal/database/postgres"
	"pathexplorer/internal/domain/user"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CreateUserWithEmployee inserts the login and its employee profile in one
// transaction.
func (r *PostgresUserRepository) CreateUserWithEmployee(ctx context.Context, u user.User, e user.Employee) error {
	return database.InTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
			u.ID, u.Email, u.PasswordHash,
		); err != nil {
			if postgres.IsUniqueViolation(err) {
				return user.ErrDuplicateEmail
			}
			return fmt.Errorf("insert user: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO employees (id, user_id, name, last_name_1, last_name_2, phone_number, location, capability, position, seniority, role)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			e.ID, u.ID, e.Name, e.LastName1, e.LastName2, e.PhoneNumber, e.Location, e.Capability, e.Position, e.Seniority, string(e.Role),
		); err != nil {
			return fmt.Errorf("insert employee: %w", err)
		}
		return nil
	})
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1 AND deleted_at IS NULL`,
		email,
	)
	return scanUser(row)
}

const employeeColumns = `id, user_id, name, last_name_1, last_name_2, phone_number, location, capability, position, seniority, role, created_at, updated_at`

func (r *PostgresUserRepository) GetEmployeeByUserID(ctx context.Context, userID uuid.UUID) (user.Employee, error) {
	row := r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE user_id = $1`, userID)
	return scanEmployee(row)
}

func (r *PostgresUserRepository) GetEmployeeByID(ctx context.Context, id uuid.UUID) (user.Employee, error) {
	row := r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func scanEmployee(row database.Row) (user.Employee, error) {
	var e user.Employee
	var role string
	if err := row.Scan(
		&e.ID, &e.UserID, &e.Name, &e.LastName1, &e.LastName2, &e.PhoneNumber,
		&e.Location, &e.Capability, &e.Position, &e.Seniority, &role, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		if postgres.IsNoRows(err) {
			return user.Employee{}, user.ErrEmployeeNotFound
		}
		return user.Employee{}, err
	}
	e.Role = user.Role(role)
	return e, nil
}
