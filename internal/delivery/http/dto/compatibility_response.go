package dto

import "github.com/google/uuid"

type MatchedSkillResponse struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Level int    `json:"level"`
}

type RoleCompatibilityResponse struct {
	RoleID          uuid.UUID              `json:"role_id"`
	RoleName        string                 `json:"role_name"`
	Description     string                 `json:"description"`
	RoleSkills      []RoleSkillResponse    `json:"role_skills"`
	MatchPercentage int                    `json:"match_percentage"`
	Tier            string                 `json:"tier"`
	MatchedSkills   []MatchedSkillResponse `json:"matched_skills"`
}

type CandidateResponse struct {
	EmployeeID      uuid.UUID              `json:"employee_id"`
	Name            string                 `json:"name"`
	MatchPercentage int                    `json:"match_percentage"`
	Tier            string                 `json:"tier"`
	MatchedSkills   []MatchedSkillResponse `json:"matched_skills"`
}
