package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/storage"
)

// UpsertPayment inserts the payment if it carries no id, otherwise updates the
// existing row in place. Last write wins.
func (s *Store) UpsertPayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	now := time.Now().UTC()

	if payment.Id == "" {
		payment.Id = uuid.New().String()
		payment.Status = models.PaymentPending
		payment.CreatedAt = now
		payment.UpdatedAt = now

		_, err := s.db.ExecContext(ctx, queryInsertPayment,
			payment.Id, payment.ProfessionalId, payment.Amount.String(), payment.Currency,
			string(payment.Status), payment.DueDate, payment.Description, payment.ContractId,
			payment.CreatedAt, payment.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert payment: %w", err)
		}
		return payment, nil
	}

	res, err := s.db.ExecContext(ctx, queryUpdatePayment,
		payment.ProfessionalId, payment.Amount.String(), payment.Currency,
		payment.DueDate, payment.Description, payment.ContractId, now, payment.Id)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrPaymentNotFound
	}

	return s.GetPayment(ctx, payment.Id)
}

// GetPayment retrieves a payment by its ID.
func (s *Store) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx, queryGetPayment, paymentID)
	payment, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListPaymentsByStatus retrieves all payments in the given status, oldest first.
func (s *Store) ListPaymentsByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	return s.listPayments(ctx, queryListPaymentsByStatus, string(status))
}

// ListPaymentsByProfessional retrieves all payments for one professional.
func (s *Store) ListPaymentsByProfessional(ctx context.Context, professionalID string) ([]models.Payment, error) {
	return s.listPayments(ctx, queryListPaymentsByProfessional, professionalID)
}

func (s *Store) listPayments(ctx context.Context, query string, arg any) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *payment)
	}
	return payments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	var amount, status string
	if err := row.Scan(&p.Id, &p.ProfessionalId, &amount, &p.Currency, &status,
		&p.DueDate, &p.Description, &p.ContractId, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
	}
	p.Amount = parsed
	p.Status = models.PaymentStatus(status)
	return &p, nil
}
