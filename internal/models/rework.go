package models

import (
	"time"

	"github.com/google/uuid"
)

// Rework round statuses.
const (
	ReworkStatusAssigned   = "assigned"
	ReworkStatusInProgress = "in_progress"
	ReworkStatusCompleted  = "completed"
)

// ReworkAssignment is one rework round of a hold. Rounds are append-only:
// completing a round never deletes or rewrites earlier rounds.
type ReworkAssignment struct {
	ID                uuid.UUID  `json:"id"`
	HoldID            uuid.UUID  `json:"hold_id"`
	Round             int        `json:"round"`
	SupervisorID      uuid.UUID  `json:"supervisor_id"`
	AssignedTo        uuid.UUID  `json:"assigned_to"`
	ReplacementPieces int        `json:"replacement_pieces"`
	Instructions      string     `json:"rework_instructions,omitempty"`
	DueDate           time.Time  `json:"due_date"`
	Status            string     `json:"status"`
	CompletedPieces   int        `json:"completed_pieces"`
	QualityNotes      string     `json:"quality_notes,omitempty"`
	AssignedAt        time.Time  `json:"assigned_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}
