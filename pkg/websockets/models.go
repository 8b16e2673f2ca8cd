package websockets

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeWalletUpdate is for wallet connection changes.
	MessageTypeWalletUpdate MessageType = "walletUpdate"
	// MessageTypeReconciliation is for terminal automation outcomes.
	MessageTypeReconciliation MessageType = "reconciliation"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// WalletUpdatePayload is the payload for a walletUpdate message.
type WalletUpdatePayload struct {
	Address   string `json:"address"`
	Connected bool   `json:"connected"`
}

// ReconciliationPayload is the payload for a reconciliation message.
type ReconciliationPayload struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	TxHash    string `json:"tx_hash,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
