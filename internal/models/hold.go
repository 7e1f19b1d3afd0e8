package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bundle hold lifecycle statuses.
const (
	HoldStatusDamageReported  = "damage_reported"
	HoldStatusReworkAssigned  = "rework_assigned"
	HoldStatusReworkCompleted = "rework_completed"
	HoldStatusPaymentReleased = "payment_released"
	HoldStatusForceReleased   = "force_released"
)

// BundleHold tracks one damage incident on a bundle and the payment it
// blocks. Holds are never deleted; they are the financial audit record.
type BundleHold struct {
	ID              uuid.UUID       `json:"id"`
	BundleNumber    string          `json:"bundle_number"`
	OperatorID      uuid.UUID       `json:"operator_id"`
	OperatorName    string          `json:"operator_name"`
	Operation       string          `json:"operation,omitempty"`
	RatePerPiece    decimal.Decimal `json:"rate_per_piece"`
	TotalPieces     int             `json:"total_pieces"`
	CompletedPieces int             `json:"completed_pieces"`
	DamageCount     int             `json:"damage_count"`
	DamageType      string          `json:"damage_type"`
	DamageDesc      string          `json:"damage_description,omitempty"`
	Severity        string          `json:"severity"`
	Status          string          `json:"status"`
	PaymentHeld     bool            `json:"payment_held"`

	ForceReleasedBy    *uuid.UUID `json:"force_released_by,omitempty"`
	ForceReleaseReason string     `json:"force_release_reason,omitempty"`

	ReportedAt        time.Time  `json:"reported_at"`
	ReworkAssignedAt  *time.Time `json:"rework_assigned_at,omitempty"`
	ReworkCompletedAt *time.Time `json:"rework_completed_at,omitempty"`
	PaymentReleasedAt *time.Time `json:"payment_released_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Version guards concurrent transitions (optimistic lock).
	Version int `json:"version"`

	// ReworkHistory is loaded from the append-only rework_assignments
	// rounds; it is never embedded or rewritten in place.
	ReworkHistory []*ReworkAssignment `json:"rework_history,omitempty"`
}

// RemainingPieces is always derived, never stored, so it cannot drift
// from its inputs.
func (h *BundleHold) RemainingPieces() int {
	return h.TotalPieces - h.CompletedPieces
}

// Terminal reports whether the hold has reached a releasing state.
func (h *BundleHold) Terminal() bool {
	return h.Status == HoldStatusPaymentReleased || h.Status == HoldStatusForceReleased
}

// ReworkCompletedPieces sums completed pieces across all rework rounds.
func (h *BundleHold) ReworkCompletedPieces() int {
	total := 0
	for _, ra := range h.ReworkHistory {
		total += ra.CompletedPieces
	}
	return total
}
