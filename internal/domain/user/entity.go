package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleDeveloper Role = "Developer"
	RoleTFS       Role = "TFS"
	RoleManager   Role = "Manager"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleDeveloper, RoleTFS, RoleManager:
		return Role(s), true
	}
	return "", false
}

// CanStaff reports whether the role may edit project roles and browse
// candidates.
func (r Role) CanStaff() bool {
	return r == RoleManager || r == RoleTFS
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Employee struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	LastName1   string
	LastName2   string
	PhoneNumber string
	Location    string
	Capability  string
	Position    string
	Seniority   int
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (e Employee) FullName() string {
	name := e.Name + " " + e.LastName1
	if e.LastName2 != "" {
		name += " " + e.LastName2
	}
	return name
}
