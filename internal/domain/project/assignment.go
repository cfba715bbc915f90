package project

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	AssignmentPending  AssignmentStatus = "pending"
	AssignmentApproved AssignmentStatus = "approved"
	AssignmentRejected AssignmentStatus = "rejected"
)

// Assignment is a manager's request to staff a developer on a role. Only a
// pending request can be decided, and a role holds at most one approved one.
type Assignment struct {
	ID          uuid.UUID
	RoleID      uuid.UUID
	ProjectID   uuid.UUID
	DeveloperID uuid.UUID
	RequestedBy uuid.UUID
	Status      AssignmentStatus
	Comments    string
	DecidedBy   uuid.UUID
	DecidedAt   *time.Time
	CreatedAt   time.Time
}

func (a Assignment) Pending() bool { return a.Status == AssignmentPending }

// PendingAssignment is a pending request joined with the names a reviewer
// needs.
type PendingAssignment struct {
	Assignment
	DeveloperName string
	ProjectName   string
	RoleName      string
}
