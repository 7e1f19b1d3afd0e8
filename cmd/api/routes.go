package main

import (
	"log/slog"
	"net/http"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/handlers"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/middleware"
	"github.com/drmcoder/garment-erp-pwa-sub006/internal/repository"
)

// RegisterV1Routes adds the /v1/ hold and earnings endpoints to the mux.
// Middleware chain: APIKeyAuth -> handler.
func RegisterV1Routes(
	mux *http.ServeMux,
	eng handlers.HoldEngine,
	apiKeyRepo *repository.APIKeyRepo,
	logger *slog.Logger,
) {
	hh := &handlers.HoldHandler{
		Engine: eng,
		Logger: logger,
	}

	auth := middleware.APIKeyAuth(apiKeyRepo)

	mux.Handle("POST /v1/holds", auth(http.HandlerFunc(hh.ReportDamage)))
	mux.Handle("GET /v1/holds", auth(http.HandlerFunc(hh.ListHeld)))
	mux.Handle("GET /v1/holds/stream", auth(http.HandlerFunc(hh.StreamHeldBundles)))
	mux.Handle("GET /v1/holds/{id}", auth(http.HandlerFunc(hh.GetHold)))
	mux.Handle("GET /v1/holds/{id}/payment", auth(http.HandlerFunc(hh.PaymentBreakdown)))
	mux.Handle("POST /v1/holds/{id}/rework", auth(http.HandlerFunc(hh.AssignRework)))
	mux.Handle("POST /v1/holds/{id}/rework/complete", auth(http.HandlerFunc(hh.CompleteRework)))
	mux.Handle("POST /v1/holds/{id}/force-release", auth(http.HandlerFunc(hh.ForceRelease)))

	mux.Handle("POST /v1/earnings", auth(http.HandlerFunc(hh.RecordEarnings)))
	mux.Handle("GET /v1/operators/{id}/pending", auth(http.HandlerFunc(hh.OperatorPendingWork)))
	mux.Handle("GET /v1/operators/{id}/earnings", auth(http.HandlerFunc(hh.OperatorEarnings)))
}
