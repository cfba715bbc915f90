package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"pathexplorer/internal/domain/user"
)

var (
	ErrNotFound = errors.New("profile not found")
	ErrInternal = errors.New("internal error")
)

// Profile is the account together with the employee record created at sign-up.
type Profile struct {
	User     user.User
	Employee user.Employee
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (Profile, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, ErrInternal
	}
	emp, err := s.users.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrEmployeeNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, ErrInternal
	}
	return Profile{User: sanitizeUser(usr), Employee: emp}, nil
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
