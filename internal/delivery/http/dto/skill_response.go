package dto

import "github.com/google/uuid"

type EmployeeSkillResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Level int       `json:"level"`
}

type RoleSkillResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Level int       `json:"level"`
}

type ProjectRoleResponse struct {
	ID          uuid.UUID           `json:"id"`
	ProjectID   uuid.UUID           `json:"project_id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Feedback    string              `json:"feedback"`
	Skills      []RoleSkillResponse `json:"skills"`
}
