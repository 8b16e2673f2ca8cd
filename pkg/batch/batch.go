// Package batch schedules every pending payment in one pass, collapsing
// payments that share a recipient, due date and currency into a single
// on-chain lock.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/payments"
	"github.com/chris/timelock-payments/pkg/reconcile"
	"github.com/chris/timelock-payments/pkg/release"
	"github.com/chris/timelock-payments/pkg/storage"
	"github.com/chris/timelock-payments/pkg/tokens"
)

// DefaultPace is the delay between groups. It spaces out wallet-confirmation
// prompts so the user never sees overlapping requests.
const DefaultPace = time.Second

type groupKey struct {
	professionalID string
	dueDate        string
	currency       string
}

// GroupResult reports the outcome for one (professional, due date, currency)
// group. A batch run returns one result per group, success or not.
type GroupResult struct {
	ProfessionalId   string          `json:"professional_id"`
	ProfessionalName string          `json:"professional_name,omitempty"`
	DueDate          string          `json:"due_date"`
	Currency         string          `json:"currency"`
	PaymentIds       []string        `json:"payment_ids"`
	Total            decimal.Decimal `json:"total"`
	TxHash           string          `json:"tx_hash,omitempty"`
	Error            string          `json:"error,omitempty"`
}

// Scheduler groups pending payments and drives the ledger gateway once per
// group, strictly sequentially.
type Scheduler struct {
	store  storage.Storage
	locks  reconcile.LockCreator
	logger *slog.Logger
	pace   time.Duration
	now    func() time.Time
}

// NewScheduler creates a Scheduler. A zero pace uses DefaultPace; a nil now
// defaults to time.Now.
func NewScheduler(store storage.Storage, locks reconcile.LockCreator, logger *slog.Logger, pace time.Duration, now func() time.Time) *Scheduler {
	if pace <= 0 {
		pace = DefaultPace
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{store: store, locks: locks, logger: logger, pace: pace, now: now}
}

// ScheduleAllPending locks every pending payment, one on-chain lock per
// (professional, due date, currency) group with the group's summed amount.
// A failing group is reported and the batch continues; partial completion is
// expected.
func (s *Scheduler) ScheduleAllPending(ctx context.Context) ([]GroupResult, error) {
	pending, err := s.store.ListPaymentsByStatus(ctx, models.PaymentPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}
	if len(pending) == 0 {
		return []GroupResult{}, nil
	}

	// Group in first-seen order so runs are deterministic.
	var order []groupKey
	groups := map[groupKey][]models.Payment{}
	for _, p := range pending {
		key := groupKey{p.ProfessionalId, p.DueDate, p.Currency}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}

	s.logger.Info("batch scheduling started", "payments", len(pending), "groups", len(order))

	results := make([]GroupResult, 0, len(order))
	for i, key := range order {
		results = append(results, s.scheduleGroup(ctx, key, groups[key]))

		if i < len(order)-1 {
			select {
			case <-time.After(s.pace):
			case <-ctx.Done():
				return results, ctx.Err()
			}
		}
	}
	return results, nil
}

func (s *Scheduler) scheduleGroup(ctx context.Context, key groupKey, group []models.Payment) GroupResult {
	result := GroupResult{
		ProfessionalId: key.professionalID,
		DueDate:        key.dueDate,
		Currency:       key.currency,
		Total:          decimal.Zero,
	}
	for _, p := range group {
		result.PaymentIds = append(result.PaymentIds, p.Id)
		result.Total = result.Total.Add(p.Amount)
	}

	professional, err := s.store.GetProfessional(ctx, key.professionalID)
	if err != nil {
		result.Error = fmt.Sprintf("failed to look up professional: %v", err)
		return result
	}
	result.ProfessionalName = professional.Name
	if professional.WalletAddress == "" {
		result.Error = fmt.Sprintf("%v: %s", payments.ErrMissingWallet, professional.Name)
		return result
	}

	tokenAddress, err := tokens.AddressFor(key.currency)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	resolution, err := release.ResolveReleaseTimestamp(key.dueDate, 0, 0, "", s.now)
	if err != nil {
		result.Error = fmt.Sprintf("failed to resolve release time: %v", err)
		return result
	}

	total := tokens.Scale(result.Total)
	txHash, err := s.locks.CreateLock(ctx, tokenAddress, total,
		[]string{professional.WalletAddress}, []*big.Int{total}, resolution.ReleaseTimestamp)
	if err != nil {
		// The attempt was dispatched, so each payment gets a failed record.
		s.recordFailures(ctx, group, resolution.ReleaseTimestamp)
		result.Error = fmt.Sprintf("lock creation failed: %v", err)
		return result
	}
	result.TxHash = txHash

	now := time.Now().UTC()
	for _, p := range group {
		if err := s.store.ConfirmTimelock(ctx, p.Id, resolution.ReleaseTimestamp, txHash, now); err != nil {
			s.logger.Error("failed to confirm timelock for batched payment",
				"payment_id", p.Id, "tx", txHash, "error", err)
			result.Error = fmt.Sprintf("lock created but confirmation failed: %v", err)
		}
	}

	s.logger.Info("group scheduled", "professional", professional.Name,
		"due_date", key.dueDate, "currency", key.currency,
		"total", result.Total.String(), "tx", txHash)
	return result
}

func (s *Scheduler) recordFailures(ctx context.Context, group []models.Payment, releaseTimestamp int64) {
	for _, p := range group {
		if err := s.store.RecordFailedTimelock(ctx, p.Id, releaseTimestamp); err != nil {
			s.logger.Error("failed to record failed timelock", "payment_id", p.Id, "error", err)
		}
	}
}
