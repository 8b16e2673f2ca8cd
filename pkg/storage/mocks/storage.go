// Package mocks provides testify mocks for the storage interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/storage"
)

// Storage is a mock implementation of storage.Storage.
type Storage struct {
	mock.Mock
}

var _ storage.Storage = (*Storage)(nil)

func (m *Storage) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *Storage) ListPaymentsByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *Storage) ListPaymentsByProfessional(ctx context.Context, professionalID string) ([]models.Payment, error) {
	args := m.Called(ctx, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *Storage) UpsertPayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *Storage) GetProfessional(ctx context.Context, professionalID string) (*models.Professional, error) {
	args := m.Called(ctx, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Professional), args.Error(1)
}

func (m *Storage) CreateProfessional(ctx context.Context, professional *models.Professional) (*models.Professional, error) {
	args := m.Called(ctx, professional)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Professional), args.Error(1)
}

func (m *Storage) ListProfessionals(ctx context.Context) ([]models.Professional, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Professional), args.Error(1)
}

func (m *Storage) GetTimelockByPayment(ctx context.Context, paymentID string) (*models.Timelock, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Timelock), args.Error(1)
}

func (m *Storage) ListTimelocks(ctx context.Context) ([]models.Timelock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Timelock), args.Error(1)
}

func (m *Storage) ConfirmTimelock(ctx context.Context, paymentID string, releaseTimestamp int64, txHash string, paidAt time.Time) error {
	args := m.Called(ctx, paymentID, releaseTimestamp, txHash, paidAt)
	return args.Error(0)
}

func (m *Storage) RecordFailedTimelock(ctx context.Context, paymentID string, releaseTimestamp int64) error {
	args := m.Called(ctx, paymentID, releaseTimestamp)
	return args.Error(0)
}
