package project

import (
	"time"

	"github.com/google/uuid"

	"pathexplorer/internal/domain/skill"
)

// DateLayout is the calendar date format used for project start and end.
const DateLayout = "2006-01-02"

type Project struct {
	ID                uuid.UUID
	Name              string
	Client            string
	Description       string
	StartDate         time.Time
	EndDate           time.Time
	EmployeesRequired int
	ManagerID         uuid.UUID
	CreatedAt         time.Time
}

// Role is a position inside a project together with the skills it requires.
type Role struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Name        string
	Description string
	Feedback    string
	Skills      []skill.RoleSkill
}
