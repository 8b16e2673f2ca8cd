package models

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus defines the possible states of a payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// TimelockStatus defines the possible states of a timelock record.
type TimelockStatus string

const (
	TimelockPending   TimelockStatus = "pending"
	TimelockCompleted TimelockStatus = "completed"
	TimelockFailed    TimelockStatus = "failed"
)

// Professional represents a freelancer who receives payments.
type Professional struct {
	Id            string    `json:"id"`
	Name          string    `json:"name"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
}

// Payment represents a scheduled payment to a professional.
// DueDate is a calendar date in ISO form (YYYY-MM-DD); the actual release
// instant of an automated payment lives on its Timelock.
type Payment struct {
	Id             string          `json:"id"`
	ProfessionalId string          `json:"professional_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         PaymentStatus   `json:"status"`
	DueDate        string          `json:"due_date"`
	Description    string          `json:"description"`
	ContractId     *string         `json:"contract_id,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Timelock records the outcome of one on-chain automation attempt for a payment.
// Status is terminal once set to completed or failed.
type Timelock struct {
	Id               string         `json:"id"`
	PaymentId        string         `json:"payment_id"`
	ReleaseTimestamp int64          `json:"release_timestamp"`
	Status           TimelockStatus `json:"status"`
	TxHash           string         `json:"tx_hash"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// PendingBlockchainAction describes one automation attempt that still needs to
// be completed against the ledger. It is ephemeral and never persisted.
// Processed guards against reconciling the same attempt twice.
type PendingBlockchainAction struct {
	PaymentId        string          `json:"payment_id"`
	RecipientWallet  string          `json:"recipient_wallet"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	TokenAddress     string          `json:"token_address"`
	ReleaseTimestamp int64           `json:"release_timestamp"`
	Processed        bool            `json:"-"`
}

// Lock is a read-only projection of one timelock entry on the ledger.
// Amounts are fixed-point integers scaled by the token's decimal count.
type Lock struct {
	Id          string     `json:"id"`
	Token       string     `json:"token"`
	TotalAmount *big.Int   `json:"total_amount"`
	ReleaseTime int64      `json:"release_time"`
	Released    bool       `json:"released"`
	Recipients  []string   `json:"recipients"`
	Amounts     []*big.Int `json:"amounts"`
}
