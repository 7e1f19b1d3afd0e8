package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
)

const workColumns = `id, type, priority, status, assigned_to, hold_id, bundle_number, pieces, instructions, due_date, created_at`

// WorkAssignmentRepo writes rework work items into the work_assignments
// table shared with the external work-assignment subsystem.
type WorkAssignmentRepo struct {
	pool *pgxpool.Pool
}

func NewWorkAssignmentRepo(pool *pgxpool.Pool) *WorkAssignmentRepo {
	return &WorkAssignmentRepo{pool: pool}
}

func (r *WorkAssignmentRepo) CreateTx(ctx context.Context, tx pgx.Tx, wa *models.WorkAssignment) error {
	return tx.QueryRow(ctx, `
		INSERT INTO work_assignments (id, type, priority, status, assigned_to, hold_id, bundle_number, pieces, instructions, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`, wa.ID, wa.Type, wa.Priority, wa.Status, wa.AssignedTo, wa.HoldID, wa.BundleNumber, wa.Pieces, wa.Instructions, wa.DueDate,
	).Scan(&wa.CreatedAt)
}

// ListOpenByAssignee returns an operator's open work items, rework first.
func (r *WorkAssignmentRepo) ListOpenByAssignee(ctx context.Context, operatorID uuid.UUID) ([]*models.WorkAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+workColumns+` FROM work_assignments
		WHERE assigned_to = $1 AND status = $2
		ORDER BY priority = $3 DESC, due_date
	`, operatorID, models.WorkStatusOpen, models.WorkPriorityHigh)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWork(rows)
}

func collectWork(rows pgx.Rows) ([]*models.WorkAssignment, error) {
	var list []*models.WorkAssignment
	for rows.Next() {
		var wa models.WorkAssignment
		if err := rows.Scan(&wa.ID, &wa.Type, &wa.Priority, &wa.Status, &wa.AssignedTo,
			&wa.HoldID, &wa.BundleNumber, &wa.Pieces, &wa.Instructions, &wa.DueDate, &wa.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &wa)
	}
	return list, rows.Err()
}
