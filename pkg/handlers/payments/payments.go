package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chris/timelock-payments/pkg/api"
	"github.com/chris/timelock-payments/pkg/ledger"
	"github.com/chris/timelock-payments/pkg/mapping"
	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/payments"
	"github.com/chris/timelock-payments/pkg/reconcile"
	"github.com/chris/timelock-payments/pkg/release"
	"github.com/chris/timelock-payments/pkg/storage"
	"github.com/chris/timelock-payments/pkg/tokens"
)

// connectionRemediation is shown alongside wallet connection failures.
const connectionRemediation = "Check that the wallet extension is installed and unlocked, then retry."

// PaymentsHandler holds the dependencies for payment-related handlers.
type PaymentsHandler struct {
	Store    storage.ApiStore
	Recorder *payments.Recorder
	Tracker  *reconcile.Tracker
	Locks    reconcile.LockCreator
}

// NewPaymentsHandler creates a new PaymentsHandler.
func NewPaymentsHandler(store storage.ApiStore, recorder *payments.Recorder, tracker *reconcile.Tracker, locks reconcile.LockCreator) *PaymentsHandler {
	return &PaymentsHandler{Store: store, Recorder: recorder, Tracker: tracker, Locks: locks}
}

// SavePayment handles creating or updating a payment, including the automation
// path that returns a pending blockchain action.
func (h *PaymentsHandler) SavePayment(w http.ResponseWriter, r *http.Request) {
	var req api.SavePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSaveError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err), "")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeSaveError(w, http.StatusBadRequest, fmt.Sprintf("Invalid amount %q", req.Amount), "")
		return
	}

	in := payments.SaveInput{
		PaymentId:      req.Id,
		ProfessionalId: req.ProfessionalId,
		Amount:         amount,
		Currency:       req.Currency,
		DueDate:        req.DueDate,
		Description:    req.Description,
		ContractId:     req.ContractId,
		Automate:       req.Automate,
	}
	if req.Release != nil {
		in.Release = payments.ReleaseSelection{
			Mode:     payments.ReleaseMode(req.Release.Mode),
			Date:     req.Release.Date,
			Hour:     req.Release.Hour,
			Minute:   req.Release.Minute,
			Timezone: req.Release.Timezone,
			Offset:   time.Duration(req.Release.OffsetMinutes) * time.Minute,
		}
	}

	result, err := h.Recorder.SavePayment(r.Context(), in)
	if err != nil {
		status, remediation := saveErrorStatus(err)
		writeSaveError(w, status, err.Error(), remediation)
		return
	}

	code := http.StatusCreated
	if result.NeedsBlockchainAction {
		code = http.StatusAccepted
	}
	writeJSON(w, code, mapping.ToApiSaveResult(result))
}

// RunAutomation completes the blockchain step for a previously saved payment.
// The request body is the pending action descriptor returned by SavePayment;
// the call blocks until the attempt reaches a terminal state.
func (h *PaymentsHandler) RunAutomation(w http.ResponseWriter, r *http.Request, paymentId string) {
	var req api.PendingAction
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.PaymentId != paymentId {
		http.Error(w, "Payment id mismatch between path and body", http.StatusBadRequest)
		return
	}

	payment, err := h.Store.GetPayment(r.Context(), paymentId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve payment: %v", err), http.StatusNotFound)
		return
	}
	if payment.Status != models.PaymentPending {
		http.Error(w, "Payment is no longer pending", http.StatusConflict)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid amount %q", req.Amount), http.StatusBadRequest)
		return
	}

	action := &models.PendingBlockchainAction{
		PaymentId:        req.PaymentId,
		RecipientWallet:  req.RecipientWallet,
		Amount:           amount,
		Currency:         req.Currency,
		TokenAddress:     req.TokenAddress,
		ReleaseTimestamp: req.ReleaseTimestamp,
	}

	state, err := h.Tracker.Run(r.Context(), h.Locks, action)
	resp := api.AutomationResponse{PaymentId: paymentId, State: string(state)}
	if err != nil {
		resp.Error = err.Error()
		if errors.Is(err, ledger.ErrConnection) || errors.Is(err, ledger.ErrNotConnected) {
			resp.Remediation = connectionRemediation
		}
		if errors.Is(err, reconcile.ErrAttemptInProgress) || errors.Is(err, ledger.ErrBusy) {
			writeJSON(w, http.StatusConflict, resp)
			return
		}
		// Terminal failure: the attempt was reconciled as failed and the
		// payment stays pending for retry.
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPaymentById handles the logic for retrieving a payment by its ID.
func (h *PaymentsHandler) GetPaymentById(w http.ResponseWriter, r *http.Request, paymentId string) {
	payment, err := h.Store.GetPayment(r.Context(), paymentId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve payment: %v", err), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToApiPayment(payment))
}

// GetTimelockByPayment retrieves the latest automation record for a payment.
func (h *PaymentsHandler) GetTimelockByPayment(w http.ResponseWriter, r *http.Request, paymentId string) {
	tl, err := h.Store.GetTimelockByPayment(r.Context(), paymentId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve timelock: %v", err), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToApiTimelock(tl))
}

// ListPayments retrieves payments filtered by professional or by status.
func (h *PaymentsHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	var (
		domainPayments []models.Payment
		err            error
	)
	if professionalID := r.URL.Query().Get("professional_id"); professionalID != "" {
		domainPayments, err = h.Store.ListPaymentsByProfessional(r.Context(), professionalID)
	} else {
		status := models.PaymentStatus(r.URL.Query().Get("status"))
		if status == "" {
			status = models.PaymentPending
		}
		domainPayments, err = h.Store.ListPaymentsByStatus(r.Context(), status)
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve payments: %v", err), http.StatusInternalServerError)
		return
	}

	apiPayments := make([]*api.Payment, len(domainPayments))
	for i, p := range domainPayments {
		apiPayments[i] = mapping.ToApiPayment(&p)
	}
	writeJSON(w, http.StatusOK, apiPayments)
}

func saveErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, payments.ErrInvalidAmount),
		errors.Is(err, release.ErrInvalidDateTime),
		errors.Is(err, tokens.ErrUnknownCurrency):
		return http.StatusBadRequest, ""
	case errors.Is(err, payments.ErrMissingWallet):
		return http.StatusUnprocessableEntity, ""
	case errors.Is(err, storage.ErrProfessionalNotFound),
		errors.Is(err, storage.ErrPaymentNotFound):
		return http.StatusNotFound, ""
	default:
		return http.StatusInternalServerError, ""
	}
}

func writeSaveError(w http.ResponseWriter, code int, msg, remediation string) {
	writeJSON(w, code, api.SavePaymentResponse{Success: false, Error: msg, Remediation: remediation})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
