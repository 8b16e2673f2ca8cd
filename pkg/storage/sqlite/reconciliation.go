package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/storage"
)

// ConfirmTimelock atomically records a completed timelock for the payment and
// marks the payment paid. Both writes happen inside a single database
// transaction so a partial outcome is impossible.
func (s *Store) ConfirmTimelock(ctx context.Context, paymentID string, releaseTimestamp int64, txHash string, paidAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	res, err := tx.ExecContext(ctx, queryMarkPaymentPaid, paidAt.UTC(), now, paymentID)
	if err != nil {
		return fmt.Errorf("failed to mark payment paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing row from one that already left pending.
		var exists int
		err := tx.QueryRowContext(ctx, queryPaymentExists, paymentID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrPaymentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check payment existence: %w", err)
		}
		return storage.ErrPaymentNotPending
	}

	_, err = tx.ExecContext(ctx, queryInsertTimelock,
		uuid.New().String(), paymentID, releaseTimestamp,
		string(models.TimelockCompleted), txHash, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert timelock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reconciliation: %w", err)
	}
	return nil
}

// RecordFailedTimelock records a failed automation attempt with an empty tx
// reference. The payment keeps its pending status.
func (s *Store) RecordFailedTimelock(ctx context.Context, paymentID string, releaseTimestamp int64) error {
	var exists int
	err := s.db.QueryRowContext(ctx, queryPaymentExists, paymentID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrPaymentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check payment existence: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, queryInsertTimelock,
		uuid.New().String(), paymentID, releaseTimestamp,
		string(models.TimelockFailed), "", now, now)
	if err != nil {
		return fmt.Errorf("failed to insert failed timelock: %w", err)
	}
	return nil
}
