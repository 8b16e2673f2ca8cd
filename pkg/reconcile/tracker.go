// Package reconcile drives one automation attempt to a terminal state and
// writes that state back to storage exactly once.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/storage"
	"github.com/chris/timelock-payments/pkg/tokens"
	"github.com/chris/timelock-payments/pkg/websockets"
)

// State is the tracker's observable position in an automation attempt.
type State string

const (
	StateIdle      State = "idle"
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// ErrAttemptInProgress is returned when a new attempt begins while another is
// still pending. The workflow supports one automation at a time.
var ErrAttemptInProgress = errors.New("an automation attempt is already in progress")

// DefaultConfirmTimeout bounds the wait for user confirmation. An attempt
// still pending after this long is reconciled as failed.
const DefaultConfirmTimeout = 10 * time.Minute

// LockCreator is the slice of the ledger gateway the tracker drives.
type LockCreator interface {
	EnsureAllowance(ctx context.Context, token string, required *big.Int) error
	CreateLock(ctx context.Context, token string, totalAmount *big.Int, recipients []string, amounts []*big.Int, releaseTime int64) (string, error)
}

// Tracker is the per-attempt state machine: idle → pending → {completed, failed}.
// Terminal states are written to storage exactly once per attempt.
type Tracker struct {
	store          storage.ReconciliationStore
	publisher      websockets.Publisher
	logger         *slog.Logger
	confirmTimeout time.Duration

	mu    sync.Mutex
	state State
}

// NewTracker creates a Tracker. A zero confirmTimeout uses DefaultConfirmTimeout.
func NewTracker(store storage.ReconciliationStore, publisher websockets.Publisher, logger *slog.Logger, confirmTimeout time.Duration) *Tracker {
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	if publisher == nil {
		publisher = &websockets.NoOpPublisher{}
	}
	return &Tracker{
		store:          store,
		publisher:      publisher,
		logger:         logger,
		confirmTimeout: confirmTimeout,
		state:          StateIdle,
	}
}

// State returns the tracker's current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Run drives a full automation attempt: allowance, lock creation, and the
// terminal write-back. The wallet wait is bounded by the confirm timeout; a
// user rejection or timeout reconciles the attempt as failed and leaves the
// payment pending for retry. No automatic retries happen here.
func (t *Tracker) Run(ctx context.Context, lc LockCreator, action *models.PendingBlockchainAction) (State, error) {
	if err := t.begin(action); err != nil {
		return t.State(), err
	}

	ctx, cancel := context.WithTimeout(ctx, t.confirmTimeout)
	defer cancel()

	total := tokens.Scale(action.Amount)

	if err := lc.EnsureAllowance(ctx, action.TokenAddress, total); err != nil {
		ferr := t.Fail(context.WithoutCancel(ctx), action, err)
		return StateFailed, errors.Join(err, ferr)
	}

	txHash, err := lc.CreateLock(ctx, action.TokenAddress, total,
		[]string{action.RecipientWallet}, []*big.Int{total}, action.ReleaseTimestamp)
	if err != nil {
		ferr := t.Fail(context.WithoutCancel(ctx), action, err)
		return StateFailed, errors.Join(err, ferr)
	}

	if err := t.Complete(ctx, action, txHash); err != nil {
		return StateCompleted, err
	}
	return StateCompleted, nil
}

func (t *Tracker) begin(action *models.PendingBlockchainAction) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StatePending {
		return ErrAttemptInProgress
	}
	if action.Processed {
		return fmt.Errorf("action for payment %s already processed", action.PaymentId)
	}
	t.state = StatePending
	return nil
}

// Complete transitions the attempt to completed: one atomic write records the
// timelock and marks the payment paid. Observing the same terminal outcome
// again is a no-op thanks to the processed guard.
func (t *Tracker) Complete(ctx context.Context, action *models.PendingBlockchainAction, txHash string) error {
	t.mu.Lock()
	if action.Processed {
		t.mu.Unlock()
		return nil
	}
	action.Processed = true
	t.state = StateCompleted
	t.mu.Unlock()

	err := t.store.ConfirmTimelock(ctx, action.PaymentId, action.ReleaseTimestamp, txHash, time.Now().UTC())
	if errors.Is(err, storage.ErrPaymentNotFound) {
		// Data-integrity gap: the attempt references a payment that no longer
		// exists. Log and skip rather than failing the user.
		t.logger.Error("reconciliation skipped, payment row missing",
			"payment_id", action.PaymentId, "tx", txHash)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to record completed timelock: %w", err)
	}

	t.logger.Info("automation completed", "payment_id", action.PaymentId, "tx", txHash)
	t.publish(ctx, websockets.ReconciliationPayload{
		PaymentID: action.PaymentId,
		Status:    string(models.TimelockCompleted),
		TxHash:    txHash,
	})
	return nil
}

// Fail transitions the attempt to failed: a failed timelock row is written
// with an empty tx reference and the payment stays pending so the user may
// retry. Idempotent per attempt.
func (t *Tracker) Fail(ctx context.Context, action *models.PendingBlockchainAction, cause error) error {
	t.mu.Lock()
	if action.Processed {
		t.mu.Unlock()
		return nil
	}
	action.Processed = true
	t.state = StateFailed
	t.mu.Unlock()

	t.logger.Error("automation failed", "payment_id", action.PaymentId, "error", cause)

	err := t.store.RecordFailedTimelock(ctx, action.PaymentId, action.ReleaseTimestamp)
	if errors.Is(err, storage.ErrPaymentNotFound) {
		t.logger.Error("reconciliation skipped, payment row missing", "payment_id", action.PaymentId)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to record failed timelock: %w", err)
	}

	t.publish(ctx, websockets.ReconciliationPayload{
		PaymentID: action.PaymentId,
		Status:    string(models.TimelockFailed),
		Reason:    cause.Error(),
	})
	return nil
}

func (t *Tracker) publish(ctx context.Context, payload websockets.ReconciliationPayload) {
	msg := websockets.Message{Type: websockets.MessageTypeReconciliation, Payload: payload}
	if err := t.publisher.Publish(ctx, msg); err != nil {
		t.logger.Error("failed to publish reconciliation update", "error", err)
	}
}
