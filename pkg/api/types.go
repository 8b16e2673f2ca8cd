// Package api defines the transport types of the HTTP surface. Monetary
// amounts travel as decimal strings.
package api

import "time"

// NewProfessional is the request body for creating a professional.
type NewProfessional struct {
	Name          string `json:"name"`
	WalletAddress string `json:"wallet_address,omitempty"`
}

// Professional is the API representation of a professional.
type Professional struct {
	Id            string    `json:"id"`
	Name          string    `json:"name"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReleaseSelection chooses how an automated payment's release instant is
// resolved: from the due date, an explicit tuple, or a relative offset.
type ReleaseSelection struct {
	Mode          string `json:"mode,omitempty"`
	Date          string `json:"date,omitempty"`
	Hour          int    `json:"hour"`
	Minute        int    `json:"minute"`
	Timezone      string `json:"timezone,omitempty"`
	OffsetMinutes int    `json:"offset_minutes,omitempty"`
}

// SavePaymentRequest is the request body for creating or updating a payment.
type SavePaymentRequest struct {
	Id             string            `json:"id,omitempty"`
	ProfessionalId string            `json:"professional_id"`
	Amount         string            `json:"amount"`
	Currency       string            `json:"currency"`
	DueDate        string            `json:"due_date"`
	Description    string            `json:"description,omitempty"`
	ContractId     *string           `json:"contract_id,omitempty"`
	Automate       bool              `json:"automate,omitempty"`
	Release        *ReleaseSelection `json:"release,omitempty"`
}

// Payment is the API representation of a payment.
type Payment struct {
	Id             string     `json:"id"`
	ProfessionalId string     `json:"professional_id"`
	Amount         string     `json:"amount"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	DueDate        string     `json:"due_date"`
	Description    string     `json:"description,omitempty"`
	ContractId     *string    `json:"contract_id,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PendingAction describes the blockchain step a saved automated payment still
// needs. The client completes it via the automation endpoint.
type PendingAction struct {
	PaymentId        string `json:"payment_id"`
	RecipientWallet  string `json:"recipient_wallet"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	TokenAddress     string `json:"token_address"`
	ReleaseTimestamp int64  `json:"release_timestamp"`
}

// SavePaymentResponse is the response body for a save.
type SavePaymentResponse struct {
	Success               bool           `json:"success"`
	Error                 string         `json:"error,omitempty"`
	Remediation           string         `json:"remediation,omitempty"`
	Payment               *Payment       `json:"payment,omitempty"`
	NeedsBlockchainAction bool           `json:"needs_blockchain_action,omitempty"`
	Action                *PendingAction `json:"action,omitempty"`
	Note                  string         `json:"note,omitempty"`
}

// AutomationResponse reports the terminal state of an automation attempt.
type AutomationResponse struct {
	PaymentId   string `json:"payment_id"`
	State       string `json:"state"`
	Error       string `json:"error,omitempty"`
	Remediation string `json:"remediation,omitempty"`
}

// Timelock is the API representation of a timelock record.
type Timelock struct {
	Id               string    `json:"id"`
	PaymentId        string    `json:"payment_id"`
	ReleaseTimestamp int64     `json:"release_timestamp"`
	Status           string    `json:"status"`
	TxHash           string    `json:"tx_hash"`
	CreatedAt        time.Time `json:"created_at"`
}

// Lock is the API projection of one on-chain lock.
type Lock struct {
	Id          string   `json:"id"`
	Token       string   `json:"token"`
	TotalAmount string   `json:"total_amount"`
	ReleaseTime int64    `json:"release_time"`
	Released    bool     `json:"released"`
	Recipients  []string `json:"recipients"`
	Amounts     []string `json:"amounts"`
}

// WalletStatus is the API snapshot of the shared wallet connection.
type WalletStatus struct {
	Address   string `json:"address"`
	Connected bool   `json:"connected"`
}
