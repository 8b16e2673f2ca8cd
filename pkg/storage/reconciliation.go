package storage

import (
	"context"
	"time"
)

// ReconciliationStore defines the privileged interface for writing the
// terminal outcome of an automation attempt. Confirming a timelock touches two
// tables (timelocks, payments) and must be atomic; it should only be exposed
// to the component responsible for reconciliation.
type ReconciliationStore interface {
	// ConfirmTimelock atomically records a completed timelock for the payment
	// and marks the payment paid. It fails without partial writes if the
	// payment does not exist or is no longer pending.
	ConfirmTimelock(ctx context.Context, paymentID string, releaseTimestamp int64, txHash string, paidAt time.Time) error

	// RecordFailedTimelock records a failed automation attempt for the payment
	// with an empty tx reference. The payment row is left untouched so the
	// user may retry.
	RecordFailedTimelock(ctx context.Context, paymentID string, releaseTimestamp int64) error
}
