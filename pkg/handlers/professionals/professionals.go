package professionals

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/timelock-payments/pkg/api"
	"github.com/chris/timelock-payments/pkg/mapping"
	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/storage"
)

// ProfessionalsHandler holds the dependencies for professional-related handlers.
type ProfessionalsHandler struct {
	Store storage.ProfessionalStore
}

// NewProfessionalsHandler creates a new ProfessionalsHandler.
func NewProfessionalsHandler(store storage.ProfessionalStore) *ProfessionalsHandler {
	return &ProfessionalsHandler{Store: store}
}

// CreateProfessional handles the logic for creating a new professional.
func (h *ProfessionalsHandler) CreateProfessional(w http.ResponseWriter, r *http.Request) {
	var req api.NewProfessional
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	created, err := h.Store.CreateProfessional(r.Context(), &models.Professional{
		Name:          req.Name,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create professional: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, mapping.ToApiProfessional(created))
}

// GetProfessionalById handles the logic for retrieving a professional by ID.
func (h *ProfessionalsHandler) GetProfessionalById(w http.ResponseWriter, r *http.Request, professionalId string) {
	professional, err := h.Store.GetProfessional(r.Context(), professionalId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve professional: %v", err), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToApiProfessional(professional))
}

// ListProfessionals handles the logic for retrieving all professionals.
func (h *ProfessionalsHandler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	domainProfessionals, err := h.Store.ListProfessionals(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve professionals: %v", err), http.StatusInternalServerError)
		return
	}

	apiProfessionals := make([]*api.Professional, len(domainProfessionals))
	for i, p := range domainProfessionals {
		apiProfessionals[i] = mapping.ToApiProfessional(&p)
	}
	writeJSON(w, http.StatusOK, apiProfessionals)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
