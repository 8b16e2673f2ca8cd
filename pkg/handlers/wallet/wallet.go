package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/timelock-payments/pkg/api"
	"github.com/chris/timelock-payments/pkg/ledger"
)

// connectionRemediation is shown alongside wallet connection failures.
const connectionRemediation = "Check that the wallet extension is installed and unlocked, then retry."

// WalletHandler holds the dependencies for wallet connection handlers.
type WalletHandler struct {
	Gateway *ledger.Gateway
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(gateway *ledger.Gateway) *WalletHandler {
	return &WalletHandler{Gateway: gateway}
}

// Connect requests wallet access through the gateway.
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	address, err := h.Gateway.Connect(r.Context())
	if err != nil {
		if errors.Is(err, ledger.ErrBusy) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		msg := fmt.Sprintf("%v. %s", err, connectionRemediation)
		http.Error(w, msg, http.StatusBadGateway)
		return
	}
	writeStatus(w, api.WalletStatus{Address: address, Connected: true})
}

// Disconnect clears the shared wallet connection.
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.Gateway.Disconnect()
	w.WriteHeader(http.StatusNoContent)
}

// Status returns the current wallet connection snapshot.
func (h *WalletHandler) Status(w http.ResponseWriter, r *http.Request) {
	conn := h.Gateway.State().Current()
	writeStatus(w, api.WalletStatus{Address: conn.Address, Connected: conn.Connected})
}

func writeStatus(w http.ResponseWriter, status api.WalletStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
