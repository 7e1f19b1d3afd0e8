package engine

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/repository"
)

// ValidationError rejects bad input before any write. The reason is
// surfaced to the caller verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// NotFoundError reports an unknown hold or bundle. Not retryable.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidStateError reports an illegal transition. It carries both the
// current and the attempted state so the caller can decide whether to
// refresh or force-release.
type InvalidStateError struct {
	Current   string
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a hold in state %s", e.Attempted, e.Current)
}

// ErrConcurrencyConflict surfaces after the bounded internal retries of
// a version conflict are exhausted.
var ErrConcurrencyConflict = errors.New("concurrent transition conflict")

// StoreUnavailableError marks a timeout or IO failure against the
// transactional store: the caller may try again later.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// retryable reports whether an internal retry with backoff may succeed:
// version conflicts (another writer won, re-read and retry) and
// transient store failures. Validation, not-found, and invalid-state
// errors never retry.
func retryable(err error) bool {
	if errors.Is(err, repository.ErrVersionConflict) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var unavailable *StoreUnavailableError
	return errors.As(err, &unavailable)
}

// uniqueViolation reports a Postgres duplicate-key error. ReportDamage
// uses it to recognize that a retried insert already committed on an
// earlier attempt whose commit acknowledgment was lost.
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// surfaced converts an exhausted internal error into the taxonomy the
// caller sees.
func surfaced(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrVersionConflict) {
		return fmt.Errorf("%s: %w", op, ErrConcurrencyConflict)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &StoreUnavailableError{Op: op, Err: err}
	}
	return err
}
