package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
)

// ErrVersionConflict is returned when a conditional hold update matched
// no row because another transition committed first.
var ErrVersionConflict = errors.New("hold version conflict")

const holdColumns = `id, bundle_number, operator_id, operator_name, operation, rate_per_piece,
	total_pieces, completed_pieces,
	damage_count, damage_type, damage_description, severity, status, payment_held,
	force_released_by, force_release_reason,
	reported_at, rework_assigned_at, rework_completed_at, payment_released_at, updated_at, version`

type HoldRepo struct {
	pool *pgxpool.Pool
}

func NewHoldRepo(pool *pgxpool.Pool) *HoldRepo {
	return &HoldRepo{pool: pool}
}

// CreateTx inserts a new hold inside the given transaction.
func (r *HoldRepo) CreateTx(ctx context.Context, tx pgx.Tx, h *models.BundleHold) error {
	return tx.QueryRow(ctx, `
		INSERT INTO bundle_payment_holds (id, bundle_number, operator_id, operator_name, operation, rate_per_piece,
			total_pieces, completed_pieces,
			damage_count, damage_type, damage_description, severity, status, payment_held)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING reported_at, updated_at, version
	`, h.ID, h.BundleNumber, h.OperatorID, h.OperatorName, h.Operation, h.RatePerPiece,
		h.TotalPieces, h.CompletedPieces,
		h.DamageCount, h.DamageType, h.DamageDesc, h.Severity, h.Status, h.PaymentHeld,
	).Scan(&h.ReportedAt, &h.UpdatedAt, &h.Version)
}

func (r *HoldRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BundleHold, error) {
	return scanHold(r.pool.QueryRow(ctx, `SELECT `+holdColumns+` FROM bundle_payment_holds WHERE id = $1`, id))
}

// GetByIDTx reads the hold inside the given transaction so the version
// seen is the version the conditional update will check.
func (r *HoldRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.BundleHold, error) {
	return scanHold(tx.QueryRow(ctx, `SELECT `+holdColumns+` FROM bundle_payment_holds WHERE id = $1`, id))
}

// UpdateTx writes the hold's mutable transition fields, guarded by the
// version read at the start of the transition. A zero-row update means a
// concurrent transition won; the caller retries or surfaces the conflict.
func (r *HoldRepo) UpdateTx(ctx context.Context, tx pgx.Tx, h *models.BundleHold, expectedVersion int) error {
	result, err := tx.Exec(ctx, `
		UPDATE bundle_payment_holds
		SET status = $2, payment_held = $3,
			force_released_by = $4, force_release_reason = $5,
			rework_assigned_at = $6, rework_completed_at = $7, payment_released_at = $8,
			updated_at = now(), version = version + 1
		WHERE id = $1 AND version = $9
	`, h.ID, h.Status, h.PaymentHeld,
		h.ForceReleasedBy, h.ForceReleaseReason,
		h.ReworkAssignedAt, h.ReworkCompletedAt, h.PaymentReleasedAt,
		expectedVersion)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	h.Version = expectedVersion + 1
	return nil
}

// ListHeld returns all holds that are still blocking payment.
func (r *HoldRepo) ListHeld(ctx context.Context) ([]*models.BundleHold, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+holdColumns+` FROM bundle_payment_holds
		WHERE payment_held = TRUE ORDER BY reported_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHolds(rows)
}

// ListHeldByOperator returns an operator's payment-blocking holds.
func (r *HoldRepo) ListHeldByOperator(ctx context.Context, operatorID uuid.UUID) ([]*models.BundleHold, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+holdColumns+` FROM bundle_payment_holds
		WHERE payment_held = TRUE AND operator_id = $1 ORDER BY reported_at DESC
	`, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHolds(rows)
}

func scanHold(row pgx.Row) (*models.BundleHold, error) {
	var h models.BundleHold
	err := row.Scan(&h.ID, &h.BundleNumber, &h.OperatorID, &h.OperatorName, &h.Operation, &h.RatePerPiece,
		&h.TotalPieces, &h.CompletedPieces,
		&h.DamageCount, &h.DamageType, &h.DamageDesc, &h.Severity, &h.Status, &h.PaymentHeld,
		&h.ForceReleasedBy, &h.ForceReleaseReason,
		&h.ReportedAt, &h.ReworkAssignedAt, &h.ReworkCompletedAt, &h.PaymentReleasedAt, &h.UpdatedAt, &h.Version)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func collectHolds(rows pgx.Rows) ([]*models.BundleHold, error) {
	var list []*models.BundleHold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, h)
	}
	return list, rows.Err()
}
