package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
)

// ---------------------------------------------------------------------------
// In-memory mocks for EarningsStore and RateSource.
// ---------------------------------------------------------------------------

type mockStore struct {
	mu      sync.Mutex
	records []*models.EarningsRecord
}

func (m *mockStore) Create(_ context.Context, e *models.EarningsRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.records = append(m.records, &cp)
	return nil
}

func (m *mockStore) HoldForBundleTx(_ context.Context, _ pgx.Tx, bundle string, op uuid.UUID, reason string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.records {
		if e.BundleNumber == bundle && e.OperatorID == op &&
			(e.Status == models.EarningsStatusPending || e.Status == models.EarningsStatusConfirmed) {
			e.Status = models.EarningsStatusHeld
			e.HoldReason = reason
			n++
		}
	}
	return n, nil
}

func (m *mockStore) ReleaseForBundleTx(_ context.Context, _ pgx.Tx, bundle string, op uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.records {
		if e.BundleNumber == bundle && e.OperatorID == op && e.Status == models.EarningsStatusHeld {
			e.Status = models.EarningsStatusConfirmed
			e.HoldReason = ""
			n++
		}
	}
	return n, nil
}

func (m *mockStore) SumHeldTx(_ context.Context, _ pgx.Tx, bundle string, op uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, e := range m.records {
		if e.BundleNumber == bundle && e.OperatorID == op && e.Status == models.EarningsStatusHeld {
			sum = sum.Add(e.Earnings)
		}
	}
	return sum, nil
}

func (m *mockStore) ListByOperator(_ context.Context, op uuid.UUID) ([]*models.EarningsRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.EarningsRecord
	for _, e := range m.records {
		if e.OperatorID == op {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockRates struct {
	rate decimal.Decimal
}

func (m *mockRates) RatePerPiece(context.Context, string) (decimal.Decimal, error) {
	return m.rate, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ---------------------------------------------------------------------------

func TestRecordEarningsBase(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, &mockRates{rate: dec("5")})

	rec, err := svc.RecordEarnings(context.Background(), WorkCompletion{
		OperatorID:   uuid.New(),
		BundleNumber: "B-1001",
		Operation:    "side_seam",
		Pieces:       20,
		RatePerPiece: dec("4.5"),
	})
	if err != nil {
		t.Fatalf("RecordEarnings: %v", err)
	}

	if !rec.BaseEarnings.Equal(dec("90")) {
		t.Errorf("base earnings: got %s, want 90", rec.BaseEarnings)
	}
	if !rec.DamageDeduction.IsZero() {
		t.Errorf("deduction without damage: got %s, want 0", rec.DamageDeduction)
	}
	if !rec.Earnings.Equal(dec("90")) {
		t.Errorf("earnings: got %s, want 90", rec.Earnings)
	}
	if rec.Status != models.EarningsStatusPending {
		t.Errorf("status: got %s, want pending", rec.Status)
	}
}

func TestRecordEarningsRateLookup(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, &mockRates{rate: dec("3.25")})

	rec, err := svc.RecordEarnings(context.Background(), WorkCompletion{
		OperatorID:   uuid.New(),
		BundleNumber: "B-1002",
		Operation:    "collar_attach",
		Pieces:       4,
	})
	if err != nil {
		t.Fatalf("RecordEarnings: %v", err)
	}
	if !rec.RatePerPiece.Equal(dec("3.25")) {
		t.Errorf("rate from lookup: got %s, want 3.25", rec.RatePerPiece)
	}
	if !rec.Earnings.Equal(dec("13")) {
		t.Errorf("earnings: got %s, want 13", rec.Earnings)
	}
}

func TestRecordEarningsInlineDamage(t *testing.T) {
	svc := NewService(&mockStore{}, &mockRates{rate: dec("5")})
	ctx := context.Background()
	op := uuid.New()

	// Operator fault: 2 damaged pieces at 4 * 0.25 each deducted.
	rec, err := svc.RecordEarnings(ctx, WorkCompletion{
		OperatorID:   op,
		BundleNumber: "B-2001",
		Operation:    "hem",
		Pieces:       10,
		RatePerPiece: dec("4"),
		Damage: &InlineDamage{
			DamageType:    models.DamageStitchingDefect,
			Severity:      models.SeverityMajor,
			DamagedPieces: 2,
		},
	})
	if err != nil {
		t.Fatalf("RecordEarnings: %v", err)
	}
	if !rec.DamageDeduction.Equal(dec("2")) {
		t.Errorf("deduction: got %s, want 2", rec.DamageDeduction)
	}
	if !rec.Earnings.Equal(dec("38")) {
		t.Errorf("earnings: got %s, want 38", rec.Earnings)
	}

	// Not the operator's fault: no deduction.
	rec, err = svc.RecordEarnings(ctx, WorkCompletion{
		OperatorID:   op,
		BundleNumber: "B-2002",
		Operation:    "hem",
		Pieces:       10,
		RatePerPiece: dec("4"),
		Damage: &InlineDamage{
			DamageType:    models.DamageFabricHole,
			Severity:      models.SeveritySevere,
			DamagedPieces: 2,
		},
	})
	if err != nil {
		t.Fatalf("RecordEarnings: %v", err)
	}
	if !rec.DamageDeduction.IsZero() {
		t.Errorf("non-fault deduction: got %s, want 0", rec.DamageDeduction)
	}
	if !rec.Earnings.Equal(dec("40")) {
		t.Errorf("earnings: got %s, want 40", rec.Earnings)
	}
}

func TestRecordEarningsRejectsBadInput(t *testing.T) {
	svc := NewService(&mockStore{}, &mockRates{rate: dec("5")})

	_, err := svc.RecordEarnings(context.Background(), WorkCompletion{
		OperatorID:   uuid.New(),
		BundleNumber: "B-3001",
		Operation:    "hem",
		Pieces:       0, // invalid
	})
	if err == nil {
		t.Fatal("expected validation error for pieces=0")
	}
}

func TestHoldAndReleaseForBundle(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, &mockRates{rate: dec("5")})
	ctx := context.Background()
	op := uuid.New()
	holdID := uuid.New()

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordEarnings(ctx, WorkCompletion{
			OperatorID:   op,
			BundleNumber: "B-4001",
			Operation:    "hem",
			Pieces:       10,
			RatePerPiece: dec("2"),
		}); err != nil {
			t.Fatalf("RecordEarnings: %v", err)
		}
	}
	// A record on another bundle must not be touched.
	if _, err := svc.RecordEarnings(ctx, WorkCompletion{
		OperatorID:   op,
		BundleNumber: "B-other",
		Operation:    "hem",
		Pieces:       1,
		RatePerPiece: dec("2"),
	}); err != nil {
		t.Fatalf("RecordEarnings: %v", err)
	}

	held, err := svc.HoldForBundle(ctx, nil, "B-4001", op, holdID)
	if err != nil {
		t.Fatalf("HoldForBundle: %v", err)
	}
	if held != 3 {
		t.Errorf("records held: got %d, want 3", held)
	}

	released, amount, err := svc.ReleaseForBundle(ctx, nil, "B-4001", op)
	if err != nil {
		t.Fatalf("ReleaseForBundle: %v", err)
	}
	if released != 3 {
		t.Errorf("records released: got %d, want 3", released)
	}
	if !amount.Equal(dec("60")) {
		t.Errorf("amount released: got %s, want 60", amount)
	}

	// Releasing again is a no-op with a zero count, not an error.
	released, amount, err = svc.ReleaseForBundle(ctx, nil, "B-4001", op)
	if err != nil {
		t.Fatalf("second ReleaseForBundle: %v", err)
	}
	if released != 0 || !amount.IsZero() {
		t.Errorf("second release: got %d records / %s, want 0 / 0", released, amount)
	}
}
