package storage

import (
	"context"

	"github.com/chris/timelock-payments/pkg/models"
)

// ProfessionalStore defines the interface for managing professionals.
type ProfessionalStore interface {
	// GetProfessional retrieves a professional by their ID.
	GetProfessional(ctx context.Context, professionalID string) (*models.Professional, error)

	// CreateProfessional creates a new professional.
	CreateProfessional(ctx context.Context, professional *models.Professional) (*models.Professional, error)

	// ListProfessionals retrieves all professionals.
	ListProfessionals(ctx context.Context) ([]models.Professional, error)
}
