package models

import (
	"time"

	"github.com/google/uuid"
)

// Work assignment types and priorities. This table is shared with the
// external work-assignment subsystem; this core only writes rework tasks.
const (
	WorkTypeRework = "rework"

	WorkPriorityHigh   = "high"
	WorkPriorityNormal = "normal"

	WorkStatusOpen      = "open"
	WorkStatusCompleted = "completed"
)

// WorkAssignment is a work item visible in an operator's pending queue.
type WorkAssignment struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	AssignedTo   uuid.UUID  `json:"assigned_to"`
	HoldID       *uuid.UUID `json:"hold_id,omitempty"`
	BundleNumber string     `json:"bundle_number"`
	Pieces       int        `json:"pieces"`
	Instructions string     `json:"instructions,omitempty"`
	DueDate      time.Time  `json:"due_date"`
	CreatedAt    time.Time  `json:"created_at"`
}
