package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Earnings record statuses.
const (
	EarningsStatusPending   = "pending"
	EarningsStatusConfirmed = "confirmed"
	EarningsStatusHeld      = "held"
	EarningsStatusPaid      = "paid"
)

// EarningsRecord is one completed piece-rate operation for an operator.
// Records start pending, flip to held when a hold references their
// bundle, and reach confirmed/paid only when the owning hold releases.
type EarningsRecord struct {
	ID              uuid.UUID       `json:"id"`
	OperatorID      uuid.UUID       `json:"operator_id"`
	BundleNumber    string          `json:"bundle_number"`
	ArticleNumber   string          `json:"article_number"`
	Operation       string          `json:"operation"`
	Pieces          int             `json:"pieces"`
	RatePerPiece    decimal.Decimal `json:"rate_per_piece"`
	BaseEarnings    decimal.Decimal `json:"base_earnings"`
	DamageDeduction decimal.Decimal `json:"damage_deduction"`
	Earnings        decimal.Decimal `json:"earnings"`
	Status          string          `json:"status"`
	HoldReason      string          `json:"hold_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
