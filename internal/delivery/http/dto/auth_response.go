package dto

import (
	"time"

	"github.com/google/uuid"

	"pathexplorer/internal/domain/user"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type EmployeeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	LastName1   string    `json:"last_name_1"`
	LastName2   string    `json:"last_name_2,omitempty"`
	PhoneNumber string    `json:"phone_number"`
	Location    string    `json:"location"`
	Capability  string    `json:"capability"`
	Position    string    `json:"position"`
	Seniority   int       `json:"seniority"`
	Role        string    `json:"role"`
}

type AuthResponse struct {
	User         UserResponse     `json:"user"`
	Employee     EmployeeResponse `json:"employee"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
}

type ProfileResponse struct {
	User     UserResponse     `json:"user"`
	Employee EmployeeResponse `json:"employee"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func NewEmployeeResponse(e user.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		LastName1:   e.LastName1,
		LastName2:   e.LastName2,
		PhoneNumber: e.PhoneNumber,
		Location:    e.Location,
		Capability:  e.Capability,
		Position:    e.Position,
		Seniority:   e.Seniority,
		Role:        string(e.Role),
	}
}
