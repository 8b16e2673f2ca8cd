package storage

import (
	"context"

	"github.com/chris/timelock-payments/pkg/models"
)

// TimelockReader defines the interface for reading timelock records.
type TimelockReader interface {
	// GetTimelockByPayment retrieves the most recent timelock record for a payment.
	GetTimelockByPayment(ctx context.Context, paymentID string) (*models.Timelock, error)

	// ListTimelocks retrieves all timelock records, newest first.
	ListTimelocks(ctx context.Context) ([]models.Timelock, error)
}
