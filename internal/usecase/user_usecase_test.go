package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"pathexplorer/internal/domain/user"
	ucuser "pathexplorer/internal/usecase/user"
)

func TestUser_GetProfile(t *testing.T) {
	users := newFakeUserRepo()
	emp := users.addEmployee("Ana", user.RoleManager)
	u := NewUserUsecase(users)

	prof, err := u.GetProfile(context.Background(), emp.UserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prof.Employee.ID != emp.ID || prof.User.ID != emp.UserID {
		t.Fatalf("unexpected profile: %+v", prof)
	}

	if _, err := u.GetProfile(context.Background(), uuid.New()); !errors.Is(err, ucuser.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := u.GetProfile(context.Background(), uuid.Nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
