package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRatePerPiece(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/rates/hem":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"operation":"hem","rate_per_piece":"4.5"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, dec("5"), time.Minute)

	rate, err := c.RatePerPiece(context.Background(), "hem")
	if err != nil {
		t.Fatalf("RatePerPiece: %v", err)
	}
	if !rate.Equal(dec("4.5")) {
		t.Errorf("rate: got %s, want 4.5", rate)
	}

	// Second lookup inside the TTL comes from cache.
	if _, err := c.RatePerPiece(context.Background(), "hem"); err != nil {
		t.Fatalf("cached RatePerPiece: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("service calls: got %d, want 1", n)
	}
}

func TestRatePerPieceUnknownOperationUsesDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, dec("5"), time.Minute)
	rate, err := c.RatePerPiece(context.Background(), "mystery_op")
	if err != nil {
		t.Fatalf("RatePerPiece: %v", err)
	}
	if !rate.Equal(dec("5")) {
		t.Errorf("default rate: got %s, want 5", rate)
	}
}

func TestRatePerPieceCacheExpires(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"operation":"hem","rate_per_piece":"4.5"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, dec("5"), time.Minute)
	fake := time.Now()
	c.now = func() time.Time { return fake }

	if _, err := c.RatePerPiece(context.Background(), "hem"); err != nil {
		t.Fatalf("RatePerPiece: %v", err)
	}
	fake = fake.Add(2 * time.Minute)
	if _, err := c.RatePerPiece(context.Background(), "hem"); err != nil {
		t.Fatalf("RatePerPiece after expiry: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("service calls: got %d, want 2", n)
	}
}

func TestRatePerPieceServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, dec("5"), time.Minute)
	if _, err := c.RatePerPiece(context.Background(), "hem"); err == nil {
		t.Fatal("expected error for failing rate service")
	}
}
