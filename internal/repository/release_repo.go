package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
)

// ReleaseRepo writes the payment_releases audit trail. Append-only:
// there are deliberately no update or delete methods.
type ReleaseRepo struct {
	pool *pgxpool.Pool
}

func NewReleaseRepo(pool *pgxpool.Pool) *ReleaseRepo {
	return &ReleaseRepo{pool: pool}
}

func (r *ReleaseRepo) CreateTx(ctx context.Context, tx pgx.Tx, pr *models.PaymentRelease) error {
	return tx.QueryRow(ctx, `
		INSERT INTO payment_releases (id, hold_id, bundle_number, operator_id, kind, records_released, amount_released, released_by, reason, breakdown)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`, pr.ID, pr.HoldID, pr.BundleNumber, pr.OperatorID, pr.Kind, pr.RecordsReleased, pr.AmountReleased, pr.ReleasedBy, pr.Reason, pr.Breakdown,
	).Scan(&pr.CreatedAt)
}

func (r *ReleaseRepo) ListByHoldID(ctx context.Context, holdID uuid.UUID) ([]*models.PaymentRelease, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, hold_id, bundle_number, operator_id, kind, records_released, amount_released, released_by, reason, breakdown, created_at
		FROM payment_releases WHERE hold_id = $1 ORDER BY created_at
	`, holdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.PaymentRelease
	for rows.Next() {
		var pr models.PaymentRelease
		if err := rows.Scan(&pr.ID, &pr.HoldID, &pr.BundleNumber, &pr.OperatorID, &pr.Kind,
			&pr.RecordsReleased, &pr.AmountReleased, &pr.ReleasedBy, &pr.Reason, &pr.Breakdown, &pr.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &pr)
	}
	return list, rows.Err()
}
