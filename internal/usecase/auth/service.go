package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pathexplorer/internal/domain/user"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Email    string
	Password string

	Name        string
	LastName1   string
	LastName2   string
	PhoneNumber string
	Location    string
	Capability  string
	Position    string
	Seniority   int
	Role        string
}

type LoginInput struct {
	Email    string
	Password string
}

type Service struct {
	users user.Repository
	cost  int
}

func NewService(users user.Repository) *Service {
	return &Service{users: users, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, user.Employee, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return user.User{}, user.Employee{}, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if !isValidPassword(in.Password) {
		return user.User{}, user.Employee{}, fmt.Errorf("%w: password", ErrInvalidInput)
	}
	emp, err := employeeFromInput(in)
	if err != nil {
		return user.User{}, user.Employee{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, user.Employee{}, ErrInternal
	}
	if exists {
		return user.User{}, user.Employee{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return user.User{}, user.Employee{}, fmt.Errorf("%w: password", ErrInvalidInput)
		}
		return user.User{}, user.Employee{}, ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
	}
	emp.ID = uuid.New()
	emp.UserID = u.ID

	if err := s.users.CreateUserWithEmployee(ctx, u, emp); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return user.User{}, user.Employee{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, user.Employee{}, ErrInternal
	}

	created, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		return user.User{}, user.Employee{}, ErrInternal
	}
	createdEmp, err := s.users.GetEmployeeByUserID(ctx, u.ID)
	if err != nil {
		return user.User{}, user.Employee{}, ErrInternal
	}
	return sanitizeUser(created), createdEmp, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, user.Employee, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return user.User{}, user.Employee{}, ErrInvalidCredentials
	}
	if in.Password == "" {
		return user.User{}, user.Employee{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, user.Employee{}, ErrInvalidCredentials
		}
		return user.User{}, user.Employee{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, user.Employee{}, ErrInvalidCredentials
	}

	emp, err := s.users.GetEmployeeByUserID(ctx, u.ID)
	if err != nil {
		return user.User{}, user.Employee{}, ErrInternal
	}

	return sanitizeUser(u), emp, nil
}

func employeeFromInput(in RegisterInput) (user.Employee, error) {
	emp := user.Employee{
		Name:        strings.TrimSpace(in.Name),
		LastName1:   strings.TrimSpace(in.LastName1),
		LastName2:   strings.TrimSpace(in.LastName2),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Location:    strings.TrimSpace(in.Location),
		Capability:  strings.TrimSpace(in.Capability),
		Position:    strings.TrimSpace(in.Position),
		Seniority:   in.Seniority,
	}

	required := map[string]string{
		"name":         emp.Name,
		"last_name_1":  emp.LastName1,
		"phone_number": emp.PhoneNumber,
		"location":     emp.Location,
		"capability":   emp.Capability,
		"position":     emp.Position,
	}
	for field, v := range required {
		if v == "" {
			return user.Employee{}, fmt.Errorf("%w: %s", ErrInvalidInput, field)
		}
	}
	if emp.Seniority < 1 || emp.Seniority > 13 {
		return user.Employee{}, fmt.Errorf("%w: seniority", ErrInvalidInput)
	}

	roleName := strings.TrimSpace(in.Role)
	if roleName == "" {
		roleName = string(user.RoleDeveloper)
	}
	role, ok := user.ParseRole(roleName)
	if !ok {
		return user.Employee{}, fmt.Errorf("%w: role", ErrInvalidInput)
	}
	emp.Role = role
	return emp, nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

// isValidPassword checks the length as typed; bcrypt only reads 72 bytes.
func isValidPassword(pw string) bool {
	return utf8.RuneCountInString(pw) >= 8 && len(pw) <= 72
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
