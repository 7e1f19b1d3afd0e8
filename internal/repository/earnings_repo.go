package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
)

const earningsColumns = `id, operator_id, bundle_number, article_number, operation, pieces,
	rate_per_piece, base_earnings, damage_deduction, earnings, status, hold_reason, created_at, updated_at`

type EarningsRepo struct {
	pool *pgxpool.Pool
}

func NewEarningsRepo(pool *pgxpool.Pool) *EarningsRepo {
	return &EarningsRepo{pool: pool}
}

func (r *EarningsRepo) Create(ctx context.Context, e *models.EarningsRecord) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO operator_earnings (id, operator_id, bundle_number, article_number, operation, pieces,
			rate_per_piece, base_earnings, damage_deduction, earnings, status, hold_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, e.ID, e.OperatorID, e.BundleNumber, e.ArticleNumber, e.Operation, e.Pieces,
		e.RatePerPiece, e.BaseEarnings, e.DamageDeduction, e.Earnings, e.Status, e.HoldReason,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *EarningsRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EarningsRecord, error) {
	return scanEarnings(r.pool.QueryRow(ctx, `SELECT `+earningsColumns+` FROM operator_earnings WHERE id = $1`, id))
}

// HoldForBundleTx flips every pending/confirmed record of the
// operator-bundle pair to held in one statement, so partial application
// is impossible. Returns the number of records held.
func (r *EarningsRepo) HoldForBundleTx(ctx context.Context, tx pgx.Tx, bundleNumber string, operatorID uuid.UUID, holdReason string) (int64, error) {
	result, err := tx.Exec(ctx, `
		UPDATE operator_earnings
		SET status = $3, hold_reason = $4, updated_at = now()
		WHERE bundle_number = $1 AND operator_id = $2 AND status IN ($5, $6)
	`, bundleNumber, operatorID, models.EarningsStatusHeld, holdReason,
		models.EarningsStatusPending, models.EarningsStatusConfirmed)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// ReleaseForBundleTx flips every held record of the operator-bundle pair
// to confirmed in one statement. Returns the number released.
func (r *EarningsRepo) ReleaseForBundleTx(ctx context.Context, tx pgx.Tx, bundleNumber string, operatorID uuid.UUID) (int64, error) {
	result, err := tx.Exec(ctx, `
		UPDATE operator_earnings
		SET status = $3, hold_reason = '', updated_at = now()
		WHERE bundle_number = $1 AND operator_id = $2 AND status = $4
	`, bundleNumber, operatorID, models.EarningsStatusConfirmed, models.EarningsStatusHeld)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// SumHeldTx totals the held earnings for the operator-bundle pair; used
// for the release audit entry, read in the same transaction.
func (r *EarningsRepo) SumHeldTx(ctx context.Context, tx pgx.Tx, bundleNumber string, operatorID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(earnings), 0) FROM operator_earnings
		WHERE bundle_number = $1 AND operator_id = $2 AND status = $3
	`, bundleNumber, operatorID, models.EarningsStatusHeld).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *EarningsRepo) ListByOperator(ctx context.Context, operatorID uuid.UUID) ([]*models.EarningsRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+earningsColumns+` FROM operator_earnings WHERE operator_id = $1 ORDER BY created_at DESC
	`, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEarnings(rows)
}

func (r *EarningsRepo) ListByBundle(ctx context.Context, bundleNumber string, operatorID uuid.UUID) ([]*models.EarningsRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+earningsColumns+` FROM operator_earnings
		WHERE bundle_number = $1 AND operator_id = $2 ORDER BY created_at DESC
	`, bundleNumber, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEarnings(rows)
}

func scanEarnings(row pgx.Row) (*models.EarningsRecord, error) {
	var e models.EarningsRecord
	err := row.Scan(&e.ID, &e.OperatorID, &e.BundleNumber, &e.ArticleNumber, &e.Operation, &e.Pieces,
		&e.RatePerPiece, &e.BaseEarnings, &e.DamageDeduction, &e.Earnings, &e.Status, &e.HoldReason,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEarnings(rows pgx.Rows) ([]*models.EarningsRecord, error) {
	var list []*models.EarningsRecord
	for rows.Next() {
		e, err := scanEarnings(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
