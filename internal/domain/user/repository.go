package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDuplicateEmail   = errors.New("email already registered")
)

type Repository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CreateUserWithEmployee(ctx context.Context, u User, e Employee) error
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetEmployeeByUserID(ctx context.Context, userID uuid.UUID) (Employee, error)
	GetEmployeeByID(ctx context.Context, id uuid.UUID) (Employee, error)
}
