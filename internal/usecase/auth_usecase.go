package usecase

import (
	"context"
	"errors"

	"pathexplorer/internal/domain/user"
	"pathexplorer/internal/pkg/jwt"
	ucauth "pathexplorer/internal/usecase/auth"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)

type AuthResult struct {
	User         user.User
	Employee     user.Employee
	AccessToken  string
	RefreshToken string
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (AuthResult, error)
	Login(ctx context.Context, in ucauth.LoginInput) (AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service
}

func NewAuthUsecase(authSvc *ucauth.Service, users user.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: authSvc, users: users, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (AuthResult, error) {
	usr, emp, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return AuthResult{}, err
	}
	return u.issue(usr, emp)
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (AuthResult, error) {
	usr, emp, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return AuthResult{}, err
	}
	return u.issue(usr, emp)
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}

	if !u.jwt.IsRefreshToken(claims) || claims.TokenType != jwt.TokenTypeRefresh {
		return "", "", ErrInvalidRefreshToken
	}

	usr, err := u.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}
	emp, err := u.users.GetEmployeeByUserID(ctx, usr.ID)
	if err != nil {
		return "", "", ErrInternal
	}

	res, err := u.issue(usr, emp)
	if err != nil {
		return "", "", err
	}
	return res.AccessToken, res.RefreshToken, nil
}

func (u *Auth) issue(usr user.User, emp user.Employee) (AuthResult, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.Email, string(emp.Role))
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	return AuthResult{User: usr, Employee: emp, AccessToken: access, RefreshToken: refresh}, nil
}
