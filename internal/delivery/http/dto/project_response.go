package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProjectResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Client            string     `json:"client"`
	Description       string     `json:"description"`
	StartDate         string     `json:"start_date,omitempty"`
	EndDate           string     `json:"end_date,omitempty"`
	EmployeesRequired int        `json:"employees_required"`
	ManagerID         *uuid.UUID `json:"manager_id"`
}

type AssignmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	RoleID      uuid.UUID  `json:"role_id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	DeveloperID uuid.UUID  `json:"developer_id"`
	RequestedBy *uuid.UUID `json:"requested_by"`
	Status      string     `json:"status"`
	Comments    string     `json:"comments"`
	DecidedBy   *uuid.UUID `json:"decided_by"`
	DecidedAt   *time.Time `json:"decided_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type PendingAssignmentResponse struct {
	AssignmentResponse
	DeveloperName string `json:"developer_name"`
	ProjectName   string `json:"project_name"`
	RoleName      string `json:"role_name"`
}
