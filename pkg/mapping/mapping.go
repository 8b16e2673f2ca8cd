package mapping

import (
	"github.com/chris/timelock-payments/pkg/api"
	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/payments"
	"github.com/chris/timelock-payments/pkg/tokens"
)

// ToApiProfessional converts a domain Professional to its API model.
func ToApiProfessional(p *models.Professional) *api.Professional {
	return &api.Professional{
		Id:            p.Id,
		Name:          p.Name,
		WalletAddress: p.WalletAddress,
		CreatedAt:     p.CreatedAt,
	}
}

// ToApiPayment converts a domain Payment to its API model.
func ToApiPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		Id:             p.Id,
		ProfessionalId: p.ProfessionalId,
		Amount:         p.Amount.String(),
		Currency:       p.Currency,
		Status:         string(p.Status),
		DueDate:        p.DueDate,
		Description:    p.Description,
		ContractId:     p.ContractId,
		PaidAt:         p.PaidAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToApiPendingAction converts a domain PendingBlockchainAction to its API model.
func ToApiPendingAction(a *models.PendingBlockchainAction) *api.PendingAction {
	return &api.PendingAction{
		PaymentId:        a.PaymentId,
		RecipientWallet:  a.RecipientWallet,
		Amount:           a.Amount.String(),
		Currency:         a.Currency,
		TokenAddress:     a.TokenAddress,
		ReleaseTimestamp: a.ReleaseTimestamp,
	}
}

// ToApiSaveResult converts a recorder SaveResult to the API response.
func ToApiSaveResult(r *payments.SaveResult) *api.SavePaymentResponse {
	resp := &api.SavePaymentResponse{
		Success:               r.Success,
		NeedsBlockchainAction: r.NeedsBlockchainAction,
		Note:                  r.Note,
	}
	if r.Payment != nil {
		resp.Payment = ToApiPayment(r.Payment)
	}
	if r.Action != nil {
		resp.Action = ToApiPendingAction(r.Action)
	}
	return resp
}

// ToApiTimelock converts a domain Timelock to its API model.
func ToApiTimelock(tl *models.Timelock) *api.Timelock {
	return &api.Timelock{
		Id:               tl.Id,
		PaymentId:        tl.PaymentId,
		ReleaseTimestamp: tl.ReleaseTimestamp,
		Status:           string(tl.Status),
		TxHash:           tl.TxHash,
		CreatedAt:        tl.CreatedAt,
	}
}

// ToApiLock converts a ledger lock projection to its API model. Amounts are
// descaled to human decimals.
func ToApiLock(l *models.Lock) *api.Lock {
	amounts := make([]string, len(l.Amounts))
	for i, a := range l.Amounts {
		amounts[i] = tokens.Unscale(a).String()
	}
	return &api.Lock{
		Id:          l.Id,
		Token:       l.Token,
		TotalAmount: tokens.Unscale(l.TotalAmount).String(),
		ReleaseTime: l.ReleaseTime,
		Released:    l.Released,
		Recipients:  l.Recipients,
		Amounts:     amounts,
	}
}
