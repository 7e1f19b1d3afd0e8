package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// HoldEventArgs is the payload of a hold-event notification job.
// Notifications are fire-and-forget relative to payment transitions:
// the job is enqueued in the transition transaction, delivered and
// retried out-of-band, and a delivery failure can never roll a
// transition back.
type HoldEventArgs struct {
	HoldID       uuid.UUID `json:"hold_id"`
	BundleNumber string    `json:"bundle_number"`
	OperatorID   uuid.UUID `json:"operator_id"`
	Event        string    `json:"event"`
	Message      string    `json:"message,omitempty"`
}

func (HoldEventArgs) Kind() string { return "hold_event" }

// HoldEventWorker delivers hold events to the notification sink webhook.
type HoldEventWorker struct {
	river.WorkerDefaults[HoldEventArgs]
	webhookURL string
	httpClient *http.Client
}

func NewHoldEventWorker(webhookURL string) *HoldEventWorker {
	return &HoldEventWorker{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *HoldEventWorker) Work(ctx context.Context, job *river.Job[HoldEventArgs]) error {
	if w.webhookURL == "" {
		// No sink configured; drop silently.
		return nil
	}

	body, err := json.Marshal(job.Args)
	if err != nil {
		return fmt.Errorf("marshal hold event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver hold event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification sink returned %d", resp.StatusCode)
	}
	return nil
}
