package ledger

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/services"
)

// EarningsStore is the minimal earnings repository interface the ledger
// needs. Satisfied by *repository.EarningsRepo.
type EarningsStore interface {
	Create(ctx context.Context, e *models.EarningsRecord) error
	HoldForBundleTx(ctx context.Context, tx pgx.Tx, bundleNumber string, operatorID uuid.UUID, holdReason string) (int64, error)
	ReleaseForBundleTx(ctx context.Context, tx pgx.Tx, bundleNumber string, operatorID uuid.UUID) (int64, error)
	SumHeldTx(ctx context.Context, tx pgx.Tx, bundleNumber string, operatorID uuid.UUID) (decimal.Decimal, error)
	ListByOperator(ctx context.Context, operatorID uuid.UUID) ([]*models.EarningsRecord, error)
}

// RateSource resolves an operation to its piece rate. Satisfied by
// *rates.Client; the rate table itself is owned outside this core.
type RateSource interface {
	RatePerPiece(ctx context.Context, operation string) (decimal.Decimal, error)
}

// InlineDamage is damage information supplied directly with a work
// completion, independent of any hold.
type InlineDamage struct {
	DamageType    string `json:"damage_type" validate:"required"`
	Severity      string `json:"severity,omitempty"`
	DamagedPieces int    `json:"damaged_pieces" validate:"gte=0"`
}

// WorkCompletion is the input to RecordEarnings.
type WorkCompletion struct {
	OperatorID    uuid.UUID       `json:"operator_id" validate:"required"`
	BundleNumber  string          `json:"bundle_number" validate:"required"`
	ArticleNumber string          `json:"article_number,omitempty"`
	Operation     string          `json:"operation" validate:"required"`
	Pieces        int             `json:"pieces" validate:"required,gt=0"`
	RatePerPiece  decimal.Decimal `json:"rate_per_piece"` // zero: resolved via the rate table
	Damage        *InlineDamage   `json:"damage,omitempty"`
}

// Service is the earnings ledger: append on completion, bulk hold and
// bulk release per operator-bundle pair.
type Service interface {
	RecordEarnings(ctx context.Context, wc WorkCompletion) (*models.EarningsRecord, error)
	HoldForBundle(ctx context.Context, tx pgx.Tx, bundleNumber string, operatorID, holdID uuid.UUID) (int64, error)
	ReleaseForBundle(ctx context.Context, tx pgx.Tx, bundleNumber string, operatorID uuid.UUID) (released int64, amount decimal.Decimal, err error)
	ListByOperator(ctx context.Context, operatorID uuid.UUID) ([]*models.EarningsRecord, error)
}

type service struct {
	store    EarningsStore
	rates    RateSource
	validate *validator.Validate
	newID    func() uuid.UUID
}

// NewService returns the earnings ledger service.
func NewService(store EarningsStore, rates RateSource) Service {
	return &service{
		store:    store,
		rates:    rates,
		validate: validator.New(),
		newID:    uuid.New,
	}
}

var _ Service = (*service)(nil)

// RecordEarnings appends one earnings record. When damage info is
// supplied inline the deduction is computed at recording time from the
// fault tables; non-operator-fault damage deducts nothing.
func (s *service) RecordEarnings(ctx context.Context, wc WorkCompletion) (*models.EarningsRecord, error) {
	if err := s.validate.Struct(wc); err != nil {
		return nil, err
	}

	rate := wc.RatePerPiece
	if rate.IsZero() {
		var err error
		rate, err = s.rates.RatePerPiece(ctx, wc.Operation)
		if err != nil {
			return nil, fmt.Errorf("resolve rate for %q: %w", wc.Operation, err)
		}
	}

	base := rate.Mul(decimal.NewFromInt(int64(wc.Pieces)))
	deduction := decimal.Zero
	if wc.Damage != nil {
		deduction = services.DamageDeduction(rate, wc.Damage.DamageType, wc.Damage.Severity, wc.Damage.DamagedPieces)
	}
	earnings := base.Sub(deduction)
	if earnings.IsNegative() {
		earnings = decimal.Zero
	}

	rec := &models.EarningsRecord{
		ID:              s.newID(),
		OperatorID:      wc.OperatorID,
		BundleNumber:    wc.BundleNumber,
		ArticleNumber:   wc.ArticleNumber,
		Operation:       wc.Operation,
		Pieces:          wc.Pieces,
		RatePerPiece:    rate,
		BaseEarnings:    base,
		DamageDeduction: deduction,
		Earnings:        earnings,
		Status:          models.EarningsStatusPending,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// HoldForBundle flips the pair's records to held in one statement inside
// the caller's transaction. Returns the number of records held.
func (s *service) HoldForBundle(ctx context.Context, tx pgx.Tx, bundleNumber string, operatorID, holdID uuid.UUID) (int64, error) {
	reason := fmt.Sprintf("damage hold %s", holdID)
	return s.store.HoldForBundleTx(ctx, tx, bundleNumber, operatorID, reason)
}

// ReleaseForBundle flips the pair's held records to confirmed in one
// statement and reports how many records and how much money released.
func (s *service) ReleaseForBundle(ctx context.Context, tx pgx.Tx, bundleNumber string, operatorID uuid.UUID) (int64, decimal.Decimal, error) {
	amount, err := s.store.SumHeldTx(ctx, tx, bundleNumber, operatorID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	released, err := s.store.ReleaseForBundleTx(ctx, tx, bundleNumber, operatorID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	return released, amount, nil
}

func (s *service) ListByOperator(ctx context.Context, operatorID uuid.UUID) ([]*models.EarningsRecord, error) {
	return s.store.ListByOperator(ctx, operatorID)
}
