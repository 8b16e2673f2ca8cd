package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/storage"
)

// GetTimelockByPayment retrieves the most recent timelock record for a payment.
func (s *Store) GetTimelockByPayment(ctx context.Context, paymentID string) (*models.Timelock, error) {
	row := s.db.QueryRowContext(ctx, queryGetTimelockByPayment, paymentID)
	tl, err := scanTimelock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrTimelockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get timelock: %w", err)
	}
	return tl, nil
}

// ListTimelocks retrieves all timelock records, newest first.
func (s *Store) ListTimelocks(ctx context.Context) ([]models.Timelock, error) {
	rows, err := s.db.QueryContext(ctx, queryListTimelocks)
	if err != nil {
		return nil, fmt.Errorf("failed to list timelocks: %w", err)
	}
	defer rows.Close()

	timelocks := []models.Timelock{}
	for rows.Next() {
		tl, err := scanTimelock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timelock: %w", err)
		}
		timelocks = append(timelocks, *tl)
	}
	return timelocks, rows.Err()
}

func scanTimelock(row rowScanner) (*models.Timelock, error) {
	var tl models.Timelock
	var status string
	if err := row.Scan(&tl.Id, &tl.PaymentId, &tl.ReleaseTimestamp, &status,
		&tl.TxHash, &tl.CreatedAt, &tl.UpdatedAt); err != nil {
		return nil, err
	}
	tl.Status = models.TimelockStatus(status)
	return &tl, nil
}
