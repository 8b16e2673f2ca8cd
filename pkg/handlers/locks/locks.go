package locks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/timelock-payments/pkg/api"
	"github.com/chris/timelock-payments/pkg/ledger"
	"github.com/chris/timelock-payments/pkg/mapping"
	"github.com/chris/timelock-payments/pkg/models"
)

// LockSource is the slice of the ledger gateway these handlers need.
type LockSource interface {
	LoadAllLocks(ctx context.Context) ([]models.Lock, error)
	PerformUpkeep(ctx context.Context) ([]models.Lock, error)
}

// LocksHandler holds the dependencies for lock-related handlers.
type LocksHandler struct {
	Source LockSource
}

// NewLocksHandler creates a new LocksHandler.
func NewLocksHandler(source LockSource) *LocksHandler {
	return &LocksHandler{Source: source}
}

// ListLocks returns the locks currently held by the timelock contract.
func (h *LocksHandler) ListLocks(w http.ResponseWriter, r *http.Request) {
	locks, err := h.Source.LoadAllLocks(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load locks: %v", err), http.StatusBadGateway)
		return
	}
	writeLocks(w, locks)
}

// PerformUpkeep triggers execution of due locks and returns the refreshed listing.
func (h *LocksHandler) PerformUpkeep(w http.ResponseWriter, r *http.Request) {
	locks, err := h.Source.PerformUpkeep(r.Context())
	if err != nil {
		if errors.Is(err, ledger.ErrBusy) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Upkeep failed: %v", err), http.StatusBadGateway)
		return
	}
	writeLocks(w, locks)
}

func writeLocks(w http.ResponseWriter, locks []models.Lock) {
	apiLocks := make([]*api.Lock, len(locks))
	for i, l := range locks {
		apiLocks[i] = mapping.ToApiLock(&l)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiLocks); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
