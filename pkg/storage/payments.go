package storage

import (
	"context"

	"github.com/chris/timelock-payments/pkg/models"
)

// PaymentReader defines the interface for reading payment data.
type PaymentReader interface {
	// GetPayment retrieves a payment by its ID.
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)

	// ListPaymentsByStatus retrieves all payments in the given status, oldest first.
	ListPaymentsByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error)

	// ListPaymentsByProfessional retrieves all payments for one professional.
	ListPaymentsByProfessional(ctx context.Context, professionalID string) ([]models.Payment, error)
}

// PaymentWriter defines the interface for creating and updating payments
// before any automation runs against them.
type PaymentWriter interface {
	// UpsertPayment inserts the payment if it has no id, otherwise updates the
	// existing row. Last write wins. It returns the stored payment with its id
	// and timestamps populated.
	UpsertPayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
}

// PaymentStore combines the reader and writer interfaces.
type PaymentStore interface {
	PaymentReader
	PaymentWriter
}
