package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Release kinds recorded in the payment_releases audit trail.
const (
	ReleaseKindNormal = "normal"
	ReleaseKindForced = "forced"
)

// PaymentRelease is an immutable audit entry written whenever a hold
// releases payment, normally or by supervisor override.
type PaymentRelease struct {
	ID              uuid.UUID       `json:"id"`
	HoldID          uuid.UUID       `json:"hold_id"`
	BundleNumber    string          `json:"bundle_number"`
	OperatorID      uuid.UUID       `json:"operator_id"`
	Kind            string          `json:"kind"`
	RecordsReleased int             `json:"records_released"`
	AmountReleased  decimal.Decimal `json:"amount_released"`
	ReleasedBy      *uuid.UUID      `json:"released_by,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	// Breakdown is the serialized payment breakdown the release was
	// computed against, kept on the audit row for later inspection.
	Breakdown json.RawMessage `json:"breakdown,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
