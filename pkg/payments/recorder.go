// Package payments records payment intents. A plain save is a single upsert;
// an automated save resolves the release instant and returns a pending
// blockchain action the caller must complete through the ledger gateway.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/release"
	"github.com/chris/timelock-payments/pkg/storage"
	"github.com/chris/timelock-payments/pkg/tokens"
)

// ErrInvalidAmount is returned when the payment amount is not positive.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrMissingWallet is returned when automation is requested for a professional
// without a configured payout address. Wrapped with the professional's name.
var ErrMissingWallet = errors.New("professional has no wallet address")

// ReleaseMode selects how the release instant of an automated payment is chosen.
type ReleaseMode string

const (
	// ReleaseOnDueDate resolves the release instant from the payment's due date.
	ReleaseOnDueDate ReleaseMode = "due_date"
	// ReleaseExplicit resolves from an explicit (date, hour, minute, timezone) tuple.
	ReleaseExplicit ReleaseMode = "explicit"
	// ReleaseAfterOffset resolves relative to now (e.g. +30min, +1 day).
	ReleaseAfterOffset ReleaseMode = "offset"
)

// ReleaseSelection is the transient user-facing release time choice.
type ReleaseSelection struct {
	Mode     ReleaseMode   `json:"mode"`
	Date     string        `json:"date,omitempty"`
	Hour     int           `json:"hour"`
	Minute   int           `json:"minute"`
	Timezone string        `json:"timezone,omitempty"`
	Offset   time.Duration `json:"offset,omitempty"`
}

// SaveInput is the full input for saving a payment.
type SaveInput struct {
	PaymentId      string
	ProfessionalId string
	Amount         decimal.Decimal
	Currency       string
	DueDate        string
	Description    string
	ContractId     *string

	Automate bool
	Release  ReleaseSelection
}

// SaveResult is the outcome of a save. When NeedsBlockchainAction is set, the
// payment row exists with status pending and Action must be completed through
// the ledger gateway before the payment is considered scheduled.
type SaveResult struct {
	Success               bool                            `json:"success"`
	Payment               *models.Payment                 `json:"payment,omitempty"`
	NeedsBlockchainAction bool                            `json:"needs_blockchain_action,omitempty"`
	Action                *models.PendingBlockchainAction `json:"action,omitempty"`
	Note                  string                          `json:"note,omitempty"`
}

// Recorder persists payment intents.
type Recorder struct {
	payments      storage.PaymentStore
	professionals storage.ProfessionalStore
	logger        *slog.Logger
	now           func() time.Time
}

// NewRecorder creates a Recorder. A nil now defaults to time.Now.
func NewRecorder(payments storage.PaymentStore, professionals storage.ProfessionalStore, logger *slog.Logger, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{payments: payments, professionals: professionals, logger: logger, now: now}
}

// SavePayment validates and persists a payment intent. Validation and wallet
// lookup failures happen before any write; a failed save leaves no partial
// state behind.
func (r *Recorder) SavePayment(ctx context.Context, in SaveInput) (*SaveResult, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, in.Amount)
	}
	if _, err := time.Parse("2006-01-02", in.DueDate); err != nil {
		return nil, fmt.Errorf("%w: due date %q", release.ErrInvalidDateTime, in.DueDate)
	}

	payment := &models.Payment{
		Id:             in.PaymentId,
		ProfessionalId: in.ProfessionalId,
		Amount:         in.Amount,
		Currency:       in.Currency,
		Status:         models.PaymentPending,
		DueDate:        in.DueDate,
		Description:    in.Description,
		ContractId:     in.ContractId,
	}

	if !in.Automate {
		saved, err := r.payments.UpsertPayment(ctx, payment)
		if err != nil {
			return nil, fmt.Errorf("failed to save payment: %w", err)
		}
		return &SaveResult{Success: true, Payment: saved}, nil
	}

	// Automation path: everything that can fail is resolved before the row is
	// written, so a rejected request leaves no state behind.
	professional, err := r.professionals.GetProfessional(ctx, in.ProfessionalId)
	if err != nil {
		return nil, fmt.Errorf("failed to look up professional: %w", err)
	}
	if professional.WalletAddress == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingWallet, professional.Name)
	}

	resolution, err := r.resolve(in)
	if err != nil {
		return nil, err
	}

	tokenAddress, err := tokens.AddressFor(in.Currency)
	if err != nil {
		return nil, err
	}

	// The row is created before the blockchain step so the pending action
	// always references a real payment id.
	saved, err := r.payments.UpsertPayment(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	r.logger.Info("payment saved, automation pending",
		"payment_id", saved.Id, "professional", professional.Name,
		"release_timestamp", resolution.ReleaseTimestamp, "auto_adjusted", resolution.AutoAdjusted)

	return &SaveResult{
		Success:               true,
		Payment:               saved,
		NeedsBlockchainAction: true,
		Note:                  resolution.Note,
		Action: &models.PendingBlockchainAction{
			PaymentId:        saved.Id,
			RecipientWallet:  professional.WalletAddress,
			Amount:           saved.Amount,
			Currency:         saved.Currency,
			TokenAddress:     tokenAddress,
			ReleaseTimestamp: resolution.ReleaseTimestamp,
		},
	}, nil
}

func (r *Recorder) resolve(in SaveInput) (release.Resolution, error) {
	switch in.Release.Mode {
	case ReleaseExplicit:
		return release.ResolveReleaseTimestamp(in.Release.Date, in.Release.Hour, in.Release.Minute, in.Release.Timezone, r.now)
	case ReleaseAfterOffset:
		return release.ResolveOffset(in.Release.Offset, r.now), nil
	default:
		// Use the due date; hour/minute/timezone still apply.
		return release.ResolveReleaseTimestamp(in.DueDate, in.Release.Hour, in.Release.Minute, in.Release.Timezone, r.now)
	}
}
