package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/engine"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/ledger"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/middleware"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/rework"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/services"
)

// HoldEngine is the engine surface the HTTP handler needs.
type HoldEngine interface {
	ReportDamage(ctx context.Context, rep engine.DamageReport) (*models.BundleHold, error)
	AssignRework(ctx context.Context, holdID uuid.UUID, req rework.Request) (*models.BundleHold, error)
	CompleteRework(ctx context.Context, holdID uuid.UUID, rep engine.CompletionReport) (*models.BundleHold, error)
	ForceReleasePayment(ctx context.Context, holdID, releasedBy uuid.UUID, reason string) (*models.BundleHold, error)
	GetHold(ctx context.Context, holdID uuid.UUID) (*models.BundleHold, error)
	GetPaymentBreakdown(ctx context.Context, holdID uuid.UUID) (*services.PaymentResult, error)
	GetHeldBundles(ctx context.Context) ([]*models.BundleHold, error)
	GetOperatorPendingWork(ctx context.Context, operatorID uuid.UUID) (*engine.PendingWork, error)
	RecordEarnings(ctx context.Context, wc ledger.WorkCompletion) (*models.EarningsRecord, error)
	ListOperatorEarnings(ctx context.Context, operatorID uuid.UUID) ([]*models.EarningsRecord, error)
	SubscribeToHeldBundles(cb func(*models.BundleHold)) func()
}

// HoldHandler serves the /v1/holds and /v1/earnings endpoints.
type HoldHandler struct {
	Engine HoldEngine
	Logger *slog.Logger
}

// ReportDamage handles POST /v1/holds.
func (h *HoldHandler) ReportDamage(w http.ResponseWriter, r *http.Request) {
	var rep engine.DamageReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	hold, err := h.Engine.ReportDamage(r.Context(), rep)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, hold)
}

// AssignRework handles POST /v1/holds/{id}/rework.
func (h *HoldHandler) AssignRework(w http.ResponseWriter, r *http.Request) {
	holdID, ok := extractHoldID(r)
	if !ok {
		http.Error(w, `{"error":"invalid hold id"}`, http.StatusBadRequest)
		return
	}

	var req rework.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.SupervisorID == uuid.Nil {
		if actor := middleware.ActorFromCtx(r.Context()); actor != nil {
			req.SupervisorID = actor.ActorID
		}
	}

	hold, err := h.Engine.AssignRework(r.Context(), holdID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hold)
}

// CompleteRework handles POST /v1/holds/{id}/rework/complete.
func (h *HoldHandler) CompleteRework(w http.ResponseWriter, r *http.Request) {
	holdID, ok := extractHoldID(r)
	if !ok {
		http.Error(w, `{"error":"invalid hold id"}`, http.StatusBadRequest)
		return
	}

	var rep engine.CompletionReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	hold, err := h.Engine.CompleteRework(r.Context(), holdID, rep)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hold)
}

type forceReleaseRequest struct {
	Reason string `json:"reason"`
}

// ForceRelease handles POST /v1/holds/{id}/force-release. The releasing
// supervisor is the authenticated actor.
func (h *HoldHandler) ForceRelease(w http.ResponseWriter, r *http.Request) {
	holdID, ok := extractHoldID(r)
	if !ok {
		http.Error(w, `{"error":"invalid hold id"}`, http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromCtx(r.Context())
	if actor == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req forceReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	hold, err := h.Engine.ForceReleasePayment(r.Context(), holdID, actor.ActorID, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hold)
}

// GetHold handles GET /v1/holds/{id}.
func (h *HoldHandler) GetHold(w http.ResponseWriter, r *http.Request) {
	holdID, ok := extractHoldID(r)
	if !ok {
		http.Error(w, `{"error":"invalid hold id"}`, http.StatusBadRequest)
		return
	}

	hold, err := h.Engine.GetHold(r.Context(), holdID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hold)
}

// PaymentBreakdown handles GET /v1/holds/{id}/payment.
func (h *HoldHandler) PaymentBreakdown(w http.ResponseWriter, r *http.Request) {
	holdID, ok := extractHoldID(r)
	if !ok {
		http.Error(w, `{"error":"invalid hold id"}`, http.StatusBadRequest)
		return
	}

	res, err := h.Engine.GetPaymentBreakdown(r.Context(), holdID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListHeld handles GET /v1/holds.
func (h *HoldHandler) ListHeld(w http.ResponseWriter, r *http.Request) {
	holds, err := h.Engine.GetHeldBundles(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if holds == nil {
		holds = []*models.BundleHold{}
	}
	writeJSON(w, http.StatusOK, holds)
}

// OperatorPendingWork handles GET /v1/operators/{id}/pending.
func (h *HoldHandler) OperatorPendingWork(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := extractOperatorID(r)
	if !ok {
		http.Error(w, `{"error":"invalid operator id"}`, http.StatusBadRequest)
		return
	}

	pw, err := h.Engine.GetOperatorPendingWork(r.Context(), operatorID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pw)
}

// RecordEarnings handles POST /v1/earnings.
func (h *HoldHandler) RecordEarnings(w http.ResponseWriter, r *http.Request) {
	var wc ledger.WorkCompletion
	if err := json.NewDecoder(r.Body).Decode(&wc); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	rec, err := h.Engine.RecordEarnings(r.Context(), wc)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// OperatorEarnings handles GET /v1/operators/{id}/earnings.
func (h *HoldHandler) OperatorEarnings(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := extractOperatorID(r)
	if !ok {
		http.Error(w, `{"error":"invalid operator id"}`, http.StatusBadRequest)
		return
	}

	recs, err := h.Engine.ListOperatorEarnings(r.Context(), operatorID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []*models.EarningsRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// StreamHeldBundles handles GET /v1/holds/stream: an SSE stream of
// committed hold transitions. A slow consumer drops events rather than
// stalling the engine.
func (h *HoldHandler) StreamHeldBundles(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, `{"error":"streaming unsupported"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	events := make(chan *models.BundleHold, 64)
	unsubscribe := h.Engine.SubscribeToHeldBundles(func(hold *models.BundleHold) {
		select {
		case events <- hold:
		default:
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case hold := <-events:
			payload, err := json.Marshal(hold)
			if err != nil {
				h.Logger.Error("marshal stream event", "hold_id", hold.ID, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: hold\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// --- helpers ---

// writeError maps engine errors onto HTTP statuses.
func (h *HoldHandler) writeError(w http.ResponseWriter, err error) {
	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": verr.Reason})
		return
	}
	var nferr *engine.NotFoundError
	if errors.As(err, &nferr) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": nferr.Error()})
		return
	}
	var serr *engine.InvalidStateError
	if errors.As(err, &serr) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":         serr.Error(),
			"current_state": serr.Current,
			"attempted":     serr.Attempted,
		})
		return
	}
	if errors.Is(err, engine.ErrConcurrencyConflict) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "concurrent transition, retry"})
		return
	}
	var uerr *engine.StoreUnavailableError
	if errors.As(err, &uerr) {
		h.Logger.Error("store unavailable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store unavailable, retry later"})
		return
	}

	h.Logger.Error("unhandled engine error", "error", err)
	http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
}

// extractHoldID parses the hold UUID from paths like /v1/holds/{id},
// /v1/holds/{id}/rework and /v1/holds/{id}/force-release.
func extractHoldID(r *http.Request) (uuid.UUID, bool) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/holds/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// extractOperatorID parses the operator UUID from /v1/operators/{id}/...
func extractOperatorID(r *http.Request) (uuid.UUID, bool) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/operators/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
