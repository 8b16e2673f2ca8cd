package payments_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/payments"
	"github.com/chris/timelock-payments/pkg/release"
	"github.com/chris/timelock-payments/pkg/storage/mocks"
	"github.com/chris/timelock-payments/pkg/tokens"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSavePayment_Manual(t *testing.T) {
	t.Run("Single Upsert No Blockchain Action", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		saved := &models.Payment{Id: "p1", Status: models.PaymentPending}
		mockStore.On("UpsertPayment", mock.Anything, mock.Anything).Once().Return(saved, nil)

		recorder := payments.NewRecorder(mockStore, mockStore, testLogger, nil)
		result, err := recorder.SavePayment(context.Background(), payments.SaveInput{
			ProfessionalId: "prof1",
			Amount:         decimal.NewFromInt(100),
			Currency:       "USD",
			DueDate:        "2030-05-01",
		})

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.False(t, result.NeedsBlockchainAction)
		assert.Nil(t, result.Action)
		mockStore.AssertExpectations(t)
		mockStore.AssertNumberOfCalls(t, "UpsertPayment", 1)
	})

	t.Run("Non Positive Amount Rejected Before Writes", func(t *testing.T) {
		mockStore := new(mocks.Storage)

		recorder := payments.NewRecorder(mockStore, mockStore, testLogger, nil)
		_, err := recorder.SavePayment(context.Background(), payments.SaveInput{
			ProfessionalId: "prof1",
			Amount:         decimal.Zero,
			Currency:       "USD",
			DueDate:        "2030-05-01",
		})

		assert.ErrorIs(t, err, payments.ErrInvalidAmount)
		mockStore.AssertNotCalled(t, "UpsertPayment")
	})

	t.Run("Malformed Due Date Rejected", func(t *testing.T) {
		mockStore := new(mocks.Storage)

		recorder := payments.NewRecorder(mockStore, mockStore, testLogger, nil)
		_, err := recorder.SavePayment(context.Background(), payments.SaveInput{
			ProfessionalId: "prof1",
			Amount:         decimal.NewFromInt(100),
			Currency:       "USD",
			DueDate:        "May 1st",
		})

		assert.ErrorIs(t, err, release.ErrInvalidDateTime)
		mockStore.AssertNotCalled(t, "UpsertPayment")
	})
}

func TestSavePayment_Automation(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Missing Wallet Performs Zero Writes", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("GetProfessional", mock.Anything, "prof1").
			Return(&models.Professional{Id: "prof1", Name: "Ana"}, nil)

		recorder := payments.NewRecorder(mockStore, mockStore, testLogger, fixedNow(now))
		_, err := recorder.SavePayment(context.Background(), payments.SaveInput{
			ProfessionalId: "prof1",
			Amount:         decimal.NewFromInt(500),
			Currency:       "USD",
			DueDate:        "2025-01-10",
			Automate:       true,
		})

		assert.ErrorIs(t, err, payments.ErrMissingWallet)
		assert.Contains(t, err.Error(), "Ana")
		mockStore.AssertNotCalled(t, "UpsertPayment")
	})

	t.Run("Due Date Automation Descriptor", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("GetProfessional", mock.Anything, "prof1").
			Return(&models.Professional{Id: "prof1", Name: "Ana", WalletAddress: "0xABC"}, nil)
		mockStore.On("UpsertPayment", mock.Anything, mock.Anything).Once().
			Return(&models.Payment{
				Id:             "p42",
				ProfessionalId: "prof1",
				Amount:         decimal.NewFromInt(500),
				Currency:       "USD",
				Status:         models.PaymentPending,
				DueDate:        "2025-01-10",
			}, nil)

		recorder := payments.NewRecorder(mockStore, mockStore, testLogger, fixedNow(now))
		result, err := recorder.SavePayment(context.Background(), payments.SaveInput{
			ProfessionalId: "prof1",
			Amount:         decimal.NewFromInt(500),
			Currency:       "USD",
			DueDate:        "2025-01-10",
			Automate:       true,
			Release: payments.ReleaseSelection{
				Mode:     payments.ReleaseOnDueDate,
				Hour:     10,
				Minute:   0,
				Timezone: "UTC",
			},
		})

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, result.NeedsBlockchainAction)
		assert.Equal(t, "p42", result.Action.PaymentId)
		assert.Equal(t, "0xABC", result.Action.RecipientWallet)

		usdcAddress, _ := tokens.AddressFor("USDC")
		assert.Equal(t, usdcAddress, result.Action.TokenAddress)

		expected := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC).Unix()
		assert.Equal(t, expected, result.Action.ReleaseTimestamp)
		assert.Empty(t, result.Note)
		mockStore.AssertExpectations(t)
	})

	t.Run("Near Release Auto Adjusted", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("GetProfessional", mock.Anything, "prof1").
			Return(&models.Professional{Id: "prof1", Name: "Ana", WalletAddress: "0xABC"}, nil)
		mockStore.On("UpsertPayment", mock.Anything, mock.Anything).
			Return(&models.Payment{Id: "p42", Amount: decimal.NewFromInt(500)}, nil)

		recorder := payments.NewRecorder(mockStore, mockStore, testLogger, fixedNow(now))
		result, err := recorder.SavePayment(context.Background(), payments.SaveInput{
			ProfessionalId: "prof1",
			Amount:         decimal.NewFromInt(500),
			Currency:       "USD",
			DueDate:        "2025-01-01",
			Automate:       true,
			Release: payments.ReleaseSelection{
				Mode:     payments.ReleaseOnDueDate,
				Timezone: "UTC",
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, now.Add(release.MinFutureOffset).Unix(), result.Action.ReleaseTimestamp)
		assert.Equal(t, release.AdjustedNote, result.Note)
	})

	t.Run("Unknown Currency Rejected Before Writes", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("GetProfessional", mock.Anything, "prof1").
			Return(&models.Professional{Id: "prof1", Name: "Ana", WalletAddress: "0xABC"}, nil)

		recorder := payments.NewRecorder(mockStore, mockStore, testLogger, fixedNow(now))
		_, err := recorder.SavePayment(context.Background(), payments.SaveInput{
			ProfessionalId: "prof1",
			Amount:         decimal.NewFromInt(500),
			Currency:       "ZZZ",
			DueDate:        "2025-01-10",
			Automate:       true,
			Release:        payments.ReleaseSelection{Mode: payments.ReleaseOnDueDate},
		})

		assert.ErrorIs(t, err, tokens.ErrUnknownCurrency)
		mockStore.AssertNotCalled(t, "UpsertPayment")
	})

	t.Run("Offset Release", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		mockStore.On("GetProfessional", mock.Anything, "prof1").
			Return(&models.Professional{Id: "prof1", Name: "Ana", WalletAddress: "0xABC"}, nil)
		mockStore.On("UpsertPayment", mock.Anything, mock.Anything).
			Return(&models.Payment{Id: "p42", Amount: decimal.NewFromInt(500)}, nil)

		recorder := payments.NewRecorder(mockStore, mockStore, testLogger, fixedNow(now))
		result, err := recorder.SavePayment(context.Background(), payments.SaveInput{
			ProfessionalId: "prof1",
			Amount:         decimal.NewFromInt(500),
			Currency:       "USD",
			DueDate:        "2025-01-10",
			Automate:       true,
			Release: payments.ReleaseSelection{
				Mode:   payments.ReleaseAfterOffset,
				Offset: 24 * time.Hour,
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, now.Add(24*time.Hour).Unix(), result.Action.ReleaseTimestamp)
	})
}
