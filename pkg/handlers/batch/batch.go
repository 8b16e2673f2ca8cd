package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/timelock-payments/pkg/batch"
)

// Runner is the slice of the batch scheduler this handler needs.
type Runner interface {
	ScheduleAllPending(ctx context.Context) ([]batch.GroupResult, error)
}

// BatchHandler holds the dependencies for batch scheduling handlers.
type BatchHandler struct {
	Scheduler Runner
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(scheduler Runner) *BatchHandler {
	return &BatchHandler{Scheduler: scheduler}
}

// ScheduleAllPending runs one batch pass over every pending payment and
// reports the per-group outcomes. Partial completion is a normal result: the
// response always carries one entry per group, failed groups included.
func (h *BatchHandler) ScheduleAllPending(w http.ResponseWriter, r *http.Request) {
	results, err := h.Scheduler.ScheduleAllPending(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Batch scheduling failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(results); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
