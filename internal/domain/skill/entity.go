package skill

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeHard Type = "hard"
	TypeSoft Type = "soft"
)

func ParseType(s string) (Type, bool) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeHard:
		return TypeHard, true
	case TypeSoft:
		return TypeSoft, true
	}
	return "", false
}

const (
	MinLevel = 0
	MaxLevel = 100
)

func ValidLevel(l int) bool { return l >= MinLevel && l <= MaxLevel }

type EmployeeSkill struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Name       string
	Type       Type
	Level      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type RoleSkill struct {
	ID     uuid.UUID
	RoleID uuid.UUID
	Name   string
	Type   Type
	Level  int
}
