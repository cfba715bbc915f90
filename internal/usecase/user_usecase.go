package usecase

import (
	"context"

	"github.com/google/uuid"

	"pathexplorer/internal/domain/user"
	ucuser "pathexplorer/internal/usecase/user"
)

type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ucuser.Profile, error)
}

type User struct {
	svc *ucuser.Service
}

func NewUserUsecase(users user.Repository) *User {
	return &User{svc: ucuser.NewService(users)}
}

func (u *User) GetProfile(ctx context.Context, userID uuid.UUID) (ucuser.Profile, error) {
	if userID == uuid.Nil {
		return ucuser.Profile{}, ErrUnauthorized
	}
	return u.svc.GetMe(ctx, userID)
}
