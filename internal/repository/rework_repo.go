package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
)

const reworkColumns = `id, hold_id, round, supervisor_id, assigned_to, replacement_pieces,
	rework_instructions, due_date, status, completed_pieces, quality_notes, assigned_at, completed_at`

// ReworkRepo stores rework rounds. Rounds are append-only: rows are
// inserted and completed, never deleted or renumbered.
type ReworkRepo struct {
	pool *pgxpool.Pool
}

func NewReworkRepo(pool *pgxpool.Pool) *ReworkRepo {
	return &ReworkRepo{pool: pool}
}

// CreateTx appends a rework round inside the given transaction. The
// round number is derived from existing rounds so concurrent appends
// cannot collide (unique index on hold_id, round).
func (r *ReworkRepo) CreateTx(ctx context.Context, tx pgx.Tx, ra *models.ReworkAssignment) error {
	return tx.QueryRow(ctx, `
		INSERT INTO rework_assignments (id, hold_id, round, supervisor_id, assigned_to, replacement_pieces,
			rework_instructions, due_date, status)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(round), 0) + 1 FROM rework_assignments WHERE hold_id = $2),
			$3, $4, $5, $6, $7, $8)
		RETURNING round, assigned_at
	`, ra.ID, ra.HoldID, ra.SupervisorID, ra.AssignedTo, ra.ReplacementPieces,
		ra.Instructions, ra.DueDate, ra.Status,
	).Scan(&ra.Round, &ra.AssignedAt)
}

// CompleteLatestTx marks the newest incomplete round of a hold as
// completed and returns it. pgx.ErrNoRows means no round is open.
func (r *ReworkRepo) CompleteLatestTx(ctx context.Context, tx pgx.Tx, holdID uuid.UUID, completedPieces int, qualityNotes string, completedAt time.Time) (*models.ReworkAssignment, error) {
	return scanRework(tx.QueryRow(ctx, `
		UPDATE rework_assignments
		SET status = $2, completed_pieces = $3, quality_notes = $4, completed_at = $5
		WHERE hold_id = $1 AND status <> $2
			AND round = (SELECT MAX(round) FROM rework_assignments WHERE hold_id = $1)
		RETURNING `+reworkColumns+`
	`, holdID, models.ReworkStatusCompleted, completedPieces, qualityNotes, completedAt))
}

func (r *ReworkRepo) ListByHoldID(ctx context.Context, holdID uuid.UUID) ([]*models.ReworkAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reworkColumns+` FROM rework_assignments WHERE hold_id = $1 ORDER BY round
	`, holdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRework(rows)
}

// ListByHoldIDTx reads rounds inside the transition transaction so the
// release decision sees the rounds as of the version check.
func (r *ReworkRepo) ListByHoldIDTx(ctx context.Context, tx pgx.Tx, holdID uuid.UUID) ([]*models.ReworkAssignment, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+reworkColumns+` FROM rework_assignments WHERE hold_id = $1 ORDER BY round
	`, holdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRework(rows)
}

func scanRework(row pgx.Row) (*models.ReworkAssignment, error) {
	var ra models.ReworkAssignment
	err := row.Scan(&ra.ID, &ra.HoldID, &ra.Round, &ra.SupervisorID, &ra.AssignedTo, &ra.ReplacementPieces,
		&ra.Instructions, &ra.DueDate, &ra.Status, &ra.CompletedPieces, &ra.QualityNotes, &ra.AssignedAt, &ra.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &ra, nil
}

func collectRework(rows pgx.Rows) ([]*models.ReworkAssignment, error) {
	var list []*models.ReworkAssignment
	for rows.Next() {
		ra, err := scanRework(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, ra)
	}
	return list, rows.Err()
}
