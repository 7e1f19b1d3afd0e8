package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/ledger"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/notify"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/rework"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/services"
)

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// HoldStore is the hold repository surface the engine needs.
// Satisfied by *repository.HoldRepo.
type HoldStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, h *models.BundleHold) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BundleHold, error)
	GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.BundleHold, error)
	UpdateTx(ctx context.Context, tx pgx.Tx, h *models.BundleHold, expectedVersion int) error
	ListHeld(ctx context.Context) ([]*models.BundleHold, error)
	ListHeldByOperator(ctx context.Context, operatorID uuid.UUID) ([]*models.BundleHold, error)
}

// ReworkStore reads and completes rework rounds. Satisfied by
// *repository.ReworkRepo.
type ReworkStore interface {
	CompleteLatestTx(ctx context.Context, tx pgx.Tx, holdID uuid.UUID, completedPieces int, qualityNotes string, completedAt time.Time) (*models.ReworkAssignment, error)
	ListByHoldID(ctx context.Context, holdID uuid.UUID) ([]*models.ReworkAssignment, error)
	ListByHoldIDTx(ctx context.Context, tx pgx.Tx, holdID uuid.UUID) ([]*models.ReworkAssignment, error)
}

// ReleaseStore appends payment release audit entries. Satisfied by
// *repository.ReleaseRepo.
type ReleaseStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, pr *models.PaymentRelease) error
}

// WorkStore reads an operator's open work items. Satisfied by
// *repository.WorkAssignmentRepo.
type WorkStore interface {
	ListOpenByAssignee(ctx context.Context, operatorID uuid.UUID) ([]*models.WorkAssignment, error)
}

// ReworkCoordinator creates a rework round plus its work item inside the
// transition transaction. Satisfied by *rework.Coordinator.
type ReworkCoordinator interface {
	CreateAssignment(ctx context.Context, tx pgx.Tx, hold *models.BundleHold, req rework.Request) (*models.ReworkAssignment, error)
}

// InsertHoldEventTxFunc enqueues a hold-event notification job in the
// same transaction as the transition it describes. The job queue
// delivers and retries out-of-band; a failed delivery never touches
// payment state.
type InsertHoldEventTxFunc func(ctx context.Context, tx pgx.Tx, args notify.HoldEventArgs) error

// Stores groups the engine's repositories.
type Stores struct {
	Holds    HoldStore
	Reworks  ReworkStore
	Releases ReleaseStore
	Works    WorkStore
}

// Options are the engine's tunables. Zero values fall back to the
// defaults below.
type Options struct {
	DefaultSeverity      string
	StoreTimeout         time.Duration
	MaxTransitionRetries uint64
	RetryBaseInterval    time.Duration
}

// DamageReport is the input to ReportDamage. A zero rate is resolved
// through the rate lookup by operation.
type DamageReport struct {
	BundleNumber    string          `json:"bundle_number" validate:"required"`
	OperatorID      uuid.UUID       `json:"operator_id" validate:"required"`
	OperatorName    string          `json:"operator_name,omitempty"`
	Operation       string          `json:"operation,omitempty"`
	RatePerPiece    decimal.Decimal `json:"rate_per_piece"`
	TotalPieces     int             `json:"total_pieces" validate:"required,gt=0"`
	CompletedPieces int             `json:"completed_pieces" validate:"gte=0"`
	DamageCount     int             `json:"damage_count" validate:"required,gt=0"`
	DamageType      string          `json:"damage_type" validate:"required"`
	DamageDesc      string          `json:"damage_description,omitempty"`
	Severity        string          `json:"severity,omitempty" validate:"omitempty,oneof=minor major severe"`
}

// CompletionReport is the input to CompleteRework.
type CompletionReport struct {
	CompletedPieces int    `json:"completed_pieces" validate:"required,gt=0"`
	QualityNotes    string `json:"quality_notes,omitempty"`
}

// PendingWork is everything an operator is waiting on: holds blocking
// their payment and open work items assigned to them.
type PendingWork struct {
	Holds     []*models.BundleHold     `json:"holds"`
	WorkItems []*models.WorkAssignment `json:"work_items"`
}

// Engine owns the hold state machine. Every transition runs in one
// transaction guarded by the hold's version; transitions on the same
// hold are additionally serialized in-process so feed subscribers see
// them in commit order.
type Engine struct {
	db       TxBeginner
	holds    HoldStore
	reworks  ReworkStore
	releases ReleaseStore
	works    WorkStore
	earnings ledger.Service
	rates    ledger.RateSource
	rework   ReworkCoordinator

	insertHoldEventTx InsertHoldEventTxFunc
	feed              *Feed
	logger            *slog.Logger
	validate          *validator.Validate

	defaultSeverity string
	storeTimeout    time.Duration
	maxRetries      uint64
	retryBase       time.Duration

	now   func() time.Time
	newID func() uuid.UUID

	// locks serializes transitions per hold (key uuid.UUID,
	// value *sync.Mutex). Entries are never removed; holds are
	// bounded by the production run.
	locks sync.Map
}

// New wires the engine.
func New(db TxBeginner, stores Stores, earnings ledger.Service, rates ledger.RateSource,
	coordinator ReworkCoordinator, insertHoldEventTx InsertHoldEventTxFunc,
	logger *slog.Logger, opts Options) *Engine {
	if opts.DefaultSeverity == "" {
		opts.DefaultSeverity = models.SeverityMinor
	}
	if opts.StoreTimeout == 0 {
		opts.StoreTimeout = 5 * time.Second
	}
	if opts.MaxTransitionRetries == 0 {
		opts.MaxTransitionRetries = 3
	}
	if opts.RetryBaseInterval == 0 {
		opts.RetryBaseInterval = 50 * time.Millisecond
	}
	return &Engine{
		db:                db,
		holds:             stores.Holds,
		reworks:           stores.Reworks,
		releases:          stores.Releases,
		works:             stores.Works,
		earnings:          earnings,
		rates:             rates,
		rework:            coordinator,
		insertHoldEventTx: insertHoldEventTx,
		feed:              NewFeed(logger),
		logger:            logger,
		validate:          validator.New(),
		defaultSeverity:   opts.DefaultSeverity,
		storeTimeout:      opts.StoreTimeout,
		maxRetries:        opts.MaxTransitionRetries,
		retryBase:         opts.RetryBaseInterval,
		now:               time.Now,
		newID:             uuid.New,
	}
}

// ReportDamage creates a hold in damage_reported and freezes the
// operator's earnings for the bundle, atomically.
func (e *Engine) ReportDamage(ctx context.Context, rep DamageReport) (*models.BundleHold, error) {
	if err := e.validate.Struct(rep); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if rep.CompletedPieces > rep.TotalPieces {
		return nil, &ValidationError{Reason: "completed_pieces exceeds total_pieces"}
	}
	if rep.DamageCount > rep.TotalPieces {
		return nil, &ValidationError{Reason: "damage_count exceeds total_pieces"}
	}
	severity := rep.Severity
	if severity == "" {
		severity = e.defaultSeverity
	}

	rate := rep.RatePerPiece
	if rate.IsNegative() {
		return nil, &ValidationError{Reason: "rate_per_piece must not be negative"}
	}
	if rate.IsZero() {
		resolved, err := e.rates.RatePerPiece(ctx, rep.Operation)
		if err != nil {
			return nil, &StoreUnavailableError{Op: "resolve piece rate", Err: err}
		}
		rate = resolved
	}

	h := &models.BundleHold{
		ID:              e.newID(),
		BundleNumber:    rep.BundleNumber,
		OperatorID:      rep.OperatorID,
		OperatorName:    rep.OperatorName,
		Operation:       rep.Operation,
		RatePerPiece:    rate,
		TotalPieces:     rep.TotalPieces,
		CompletedPieces: rep.CompletedPieces,
		DamageCount:     rep.DamageCount,
		DamageType:      rep.DamageType,
		DamageDesc:      rep.DamageDesc,
		Severity:        severity,
		Status:          models.HoldStatusDamageReported,
		PaymentHeld:     true,
	}

	attempt := func() error {
		ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
		defer cancel()

		tx, err := e.db.Begin(ctx)
		if err != nil {
			return &StoreUnavailableError{Op: "report damage", Err: err}
		}
		defer tx.Rollback(ctx)

		if err := e.holds.CreateTx(ctx, tx, h); err != nil {
			// A duplicate id means an earlier attempt committed but its
			// acknowledgment was lost. Adopt the committed row.
			if uniqueViolation(err) {
				existing, gerr := e.holds.GetByID(ctx, h.ID)
				if gerr != nil {
					return gerr
				}
				*h = *existing
				return nil
			}
			return err
		}
		held, err := e.earnings.HoldForBundle(ctx, tx, h.BundleNumber, h.OperatorID, h.ID)
		if err != nil {
			return err
		}
		if err := e.enqueueEvent(ctx, tx, h, "payment held for reported damage"); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return &StoreUnavailableError{Op: "report damage", Err: err}
		}

		e.logger.Info("damage reported",
			"hold_id", h.ID, "bundle", h.BundleNumber, "operator_id", h.OperatorID,
			"damage_type", h.DamageType, "severity", h.Severity, "records_held", held)
		return nil
	}
	if err := e.retry(ctx, attempt); err != nil {
		return nil, surfaced("report damage", err)
	}

	e.publish(h)
	return h, nil
}

// AssignRework moves the hold to rework_assigned and creates the rework
// round plus its work item. Legal from damage_reported and from
// rework_completed (further rounds after a partial completion).
func (e *Engine) AssignRework(ctx context.Context, holdID uuid.UUID, req rework.Request) (*models.BundleHold, error) {
	if err := e.validate.Struct(req); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	return e.transition(ctx, "assign rework", holdID, func(ctx context.Context, tx pgx.Tx, h *models.BundleHold) (bool, error) {
		if h.Status != models.HoldStatusDamageReported && h.Status != models.HoldStatusReworkCompleted {
			return false, &InvalidStateError{Current: h.Status, Attempted: "assign rework"}
		}

		ra, err := e.rework.CreateAssignment(ctx, tx, h, req)
		if err != nil {
			return false, err
		}
		h.ReworkHistory = append(h.ReworkHistory, ra)

		now := e.now()
		h.Status = models.HoldStatusReworkAssigned
		h.ReworkAssignedAt = &now
		if err := e.enqueueEvent(ctx, tx, h, "rework assigned"); err != nil {
			return false, err
		}

		e.logger.Info("rework assigned",
			"hold_id", h.ID, "round", ra.Round, "assigned_to", ra.AssignedTo,
			"replacement_pieces", ra.ReplacementPieces, "due", ra.DueDate)
		return true, nil
	})
}

// CompleteRework records the outcome of the open rework round. When the
// original completion plus all rework rounds cover the bundle, payment
// releases in the same transaction; otherwise the hold parks in
// rework_completed awaiting another round or a supervisor override.
// Calling it on a hold that already released is a no-op.
func (e *Engine) CompleteRework(ctx context.Context, holdID uuid.UUID, rep CompletionReport) (*models.BundleHold, error) {
	if err := e.validate.Struct(rep); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	return e.transition(ctx, "complete rework", holdID, func(ctx context.Context, tx pgx.Tx, h *models.BundleHold) (bool, error) {
		if h.Terminal() {
			return false, nil
		}
		if h.Status != models.HoldStatusReworkAssigned {
			return false, &InvalidStateError{Current: h.Status, Attempted: "complete rework"}
		}

		now := e.now()
		ra, err := e.reworks.CompleteLatestTx(ctx, tx, h.ID, rep.CompletedPieces, rep.QualityNotes, now)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return false, &InvalidStateError{Current: h.Status, Attempted: "complete rework"}
			}
			return false, err
		}
		if n := len(h.ReworkHistory); n > 0 && h.ReworkHistory[n-1].Round == ra.Round {
			h.ReworkHistory[n-1] = ra
		} else {
			h.ReworkHistory = append(h.ReworkHistory, ra)
		}

		h.ReworkCompletedAt = &now
		if h.CompletedPieces+h.ReworkCompletedPieces() >= h.TotalPieces {
			if err := e.release(ctx, tx, h, models.ReleaseKindNormal, nil, "rework completed"); err != nil {
				return false, err
			}
		} else {
			h.Status = models.HoldStatusReworkCompleted
			e.logger.Info("rework round completed short",
				"hold_id", h.ID, "round", ra.Round,
				"covered", h.CompletedPieces+h.ReworkCompletedPieces(), "total", h.TotalPieces)
		}

		if err := e.enqueueEvent(ctx, tx, h, "rework round completed"); err != nil {
			return false, err
		}
		return true, nil
	})
}

// ForceReleasePayment is the supervisor override: it releases payment
// from any non-terminal state. The reason is mandatory and lands in the
// audit trail. On a hold that already released it is a no-op.
func (e *Engine) ForceReleasePayment(ctx context.Context, holdID, releasedBy uuid.UUID, reason string) (*models.BundleHold, error) {
	if reason == "" {
		return nil, &ValidationError{Reason: "force release requires a reason"}
	}
	if releasedBy == uuid.Nil {
		return nil, &ValidationError{Reason: "force release requires the releasing supervisor"}
	}

	return e.transition(ctx, "force release", holdID, func(ctx context.Context, tx pgx.Tx, h *models.BundleHold) (bool, error) {
		if h.Terminal() {
			return false, nil
		}

		h.ForceReleasedBy = &releasedBy
		h.ForceReleaseReason = reason
		if err := e.release(ctx, tx, h, models.ReleaseKindForced, &releasedBy, reason); err != nil {
			return false, err
		}
		if err := e.enqueueEvent(ctx, tx, h, "payment force released: "+reason); err != nil {
			return false, err
		}
		return true, nil
	})
}

// release moves the hold to its terminal state and unfreezes the
// operator's earnings, inside the caller's transaction.
func (e *Engine) release(ctx context.Context, tx pgx.Tx, h *models.BundleHold, kind string, releasedBy *uuid.UUID, reason string) error {
	released, amount, err := e.earnings.ReleaseForBundle(ctx, tx, h.BundleNumber, h.OperatorID)
	if err != nil {
		return err
	}

	now := e.now()
	if kind == models.ReleaseKindForced {
		h.Status = models.HoldStatusForceReleased
	} else {
		h.Status = models.HoldStatusPaymentReleased
	}
	h.PaymentHeld = false
	h.PaymentReleasedAt = &now

	bd := e.breakdown(h)
	raw, err := json.Marshal(bd)
	if err != nil {
		return fmt.Errorf("encode payment breakdown: %w", err)
	}

	pr := &models.PaymentRelease{
		ID:              e.newID(),
		HoldID:          h.ID,
		BundleNumber:    h.BundleNumber,
		OperatorID:      h.OperatorID,
		Kind:            kind,
		RecordsReleased: int(released),
		AmountReleased:  amount,
		ReleasedBy:      releasedBy,
		Reason:          reason,
		Breakdown:       raw,
	}
	if err := e.releases.CreateTx(ctx, tx, pr); err != nil {
		return err
	}

	e.logger.Info("payment released",
		"hold_id", h.ID, "bundle", h.BundleNumber, "operator_id", h.OperatorID,
		"kind", kind, "records", released, "amount", amount)
	return nil
}

// breakdown computes the itemized payment for a hold from its piece
// coverage: damaged pieces covered by completed rework rounds pay at
// the fault-adjusted rate now, the rest stays held. On a force-released
// hold the held component reflects what the override paid out early.
func (e *Engine) breakdown(h *models.BundleHold) services.PaymentResult {
	reworked := h.ReworkCompletedPieces()
	if reworked > h.DamageCount {
		reworked = h.DamageCount
	}
	pending := h.DamageCount - reworked

	var reports []*models.DamageReport
	if reworked > 0 {
		reports = append(reports, &models.DamageReport{
			DamageType:     h.DamageType,
			Severity:       h.Severity,
			AffectedPieces: reworked,
			OperatorFault:  services.Classify(h.DamageType).OperatorFault,
			Status:         models.DamageStatusReturnedCompleted,
		})
	}
	if pending > 0 {
		reports = append(reports, &models.DamageReport{
			DamageType:     h.DamageType,
			Severity:       h.Severity,
			AffectedPieces: pending,
			OperatorFault:  services.Classify(h.DamageType).OperatorFault,
			Status:         models.DamageStatusInRework,
		})
	}

	// CompletedPieces on the hold counts only undamaged output, so the
	// calculator sees damaged pieces on top of it.
	completion := services.BundleCompletion{
		TotalPieces:     h.TotalPieces,
		CompletedPieces: h.CompletedPieces + h.DamageCount,
		RatePerPiece:    h.RatePerPiece,
	}
	return services.CalculateBundlePayment(completion, reports)
}

// GetPaymentBreakdown returns the itemized payment for a hold at its
// current piece coverage.
func (e *Engine) GetPaymentBreakdown(ctx context.Context, holdID uuid.UUID) (*services.PaymentResult, error) {
	h, err := e.GetHold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	res := e.breakdown(h)
	return &res, nil
}

// GetHold returns one hold with its rework history.
func (e *Engine) GetHold(ctx context.Context, holdID uuid.UUID) (*models.BundleHold, error) {
	h, err := e.holds.GetByID(ctx, holdID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "hold", ID: holdID}
		}
		return nil, err
	}
	h.ReworkHistory, err = e.reworks.ListByHoldID(ctx, holdID)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// GetHeldBundles lists every hold still blocking payment, newest first,
// with rework history attached.
func (e *Engine) GetHeldBundles(ctx context.Context) ([]*models.BundleHold, error) {
	holds, err := e.holds.ListHeld(ctx)
	if err != nil {
		return nil, err
	}
	return e.attachHistory(ctx, holds)
}

// GetOperatorPendingWork returns what an operator is blocked on: their
// payment-holding bundles and their open work items, rework first.
func (e *Engine) GetOperatorPendingWork(ctx context.Context, operatorID uuid.UUID) (*PendingWork, error) {
	holds, err := e.holds.ListHeldByOperator(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	holds, err = e.attachHistory(ctx, holds)
	if err != nil {
		return nil, err
	}
	items, err := e.works.ListOpenByAssignee(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	return &PendingWork{Holds: holds, WorkItems: items}, nil
}

// RecordEarnings appends a work completion to the earnings ledger.
func (e *Engine) RecordEarnings(ctx context.Context, wc ledger.WorkCompletion) (*models.EarningsRecord, error) {
	rec, err := e.earnings.RecordEarnings(ctx, wc)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, &ValidationError{Reason: err.Error()}
		}
		return nil, err
	}
	return rec, nil
}

// ListOperatorEarnings returns an operator's earnings records.
func (e *Engine) ListOperatorEarnings(ctx context.Context, operatorID uuid.UUID) ([]*models.EarningsRecord, error) {
	return e.earnings.ListByOperator(ctx, operatorID)
}

// SubscribeToHeldBundles registers cb for committed hold transitions and
// returns an unsubscribe function. Transitions of one hold arrive in
// commit order.
func (e *Engine) SubscribeToHeldBundles(cb func(*models.BundleHold)) func() {
	return e.feed.Subscribe(cb)
}

// ---------------------------------------------------------------------------
// transition machinery
// ---------------------------------------------------------------------------

// mutator inspects and mutates the hold inside the transaction. Return
// changed=false for an idempotent no-op; the engine then commits nothing
// and publishes nothing.
type mutator func(ctx context.Context, tx pgx.Tx, h *models.BundleHold) (changed bool, err error)

// transition serializes per-hold, runs fn in a version-guarded
// transaction with bounded retries, and publishes the committed
// snapshot.
func (e *Engine) transition(ctx context.Context, op string, holdID uuid.UUID, fn mutator) (*models.BundleHold, error) {
	mu := e.lockFor(holdID)
	mu.Lock()
	defer mu.Unlock()

	var out *models.BundleHold
	var changed bool
	attempt := func() error {
		h, ch, err := e.runTransition(ctx, op, holdID, fn)
		if err != nil {
			return err
		}
		out, changed = h, ch
		return nil
	}
	if err := e.retry(ctx, attempt); err != nil {
		return nil, surfaced(op, err)
	}

	if changed {
		e.publish(out)
	}
	return out, nil
}

func (e *Engine) runTransition(ctx context.Context, op string, holdID uuid.UUID, fn mutator) (*models.BundleHold, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	tx, err := e.db.Begin(ctx)
	if err != nil {
		return nil, false, &StoreUnavailableError{Op: op, Err: err}
	}
	defer tx.Rollback(ctx)

	h, err := e.holds.GetByIDTx(ctx, tx, holdID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, &NotFoundError{Kind: "hold", ID: holdID}
		}
		return nil, false, err
	}
	h.ReworkHistory, err = e.reworks.ListByHoldIDTx(ctx, tx, holdID)
	if err != nil {
		return nil, false, err
	}

	expected := h.Version
	changed, err := fn(ctx, tx, h)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return h, false, nil
	}

	if err := e.holds.UpdateTx(ctx, tx, h, expected); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, &StoreUnavailableError{Op: op, Err: err}
	}
	return h, true, nil
}

// retry runs attempt with exponential backoff. Non-retryable errors
// (validation, not found, invalid state) stop immediately.
func (e *Engine) retry(ctx context.Context, attempt func() error) error {
	wrapped := func() error {
		err := attempt()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	bo := backoff.NewExponentialBackOff(backoff.WithInitialInterval(e.retryBase))
	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(bo, e.maxRetries), ctx))
}

func (e *Engine) lockFor(holdID uuid.UUID) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(holdID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (e *Engine) enqueueEvent(ctx context.Context, tx pgx.Tx, h *models.BundleHold, message string) error {
	if e.insertHoldEventTx == nil {
		return nil
	}
	return e.insertHoldEventTx(ctx, tx, notify.HoldEventArgs{
		HoldID:       h.ID,
		BundleNumber: h.BundleNumber,
		OperatorID:   h.OperatorID,
		Event:        h.Status,
		Message:      message,
	})
}

// publish hands subscribers their own snapshot so later transitions
// cannot race with their reads.
func (e *Engine) publish(h *models.BundleHold) {
	cp := *h
	cp.ReworkHistory = append([]*models.ReworkAssignment(nil), h.ReworkHistory...)
	e.feed.Publish(&cp)
}

func (e *Engine) attachHistory(ctx context.Context, holds []*models.BundleHold) ([]*models.BundleHold, error) {
	for _, h := range holds {
		history, err := e.reworks.ListByHoldID(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		h.ReworkHistory = history
	}
	return holds, nil
}
