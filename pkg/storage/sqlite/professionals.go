package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chris/timelock-payments/pkg/models"
	"github.com/chris/timelock-payments/pkg/storage"
)

// GetProfessional retrieves a professional by their ID.
func (s *Store) GetProfessional(ctx context.Context, professionalID string) (*models.Professional, error) {
	var p models.Professional
	err := s.db.QueryRowContext(ctx, queryGetProfessional, professionalID).
		Scan(&p.Id, &p.Name, &p.WalletAddress, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}
	return &p, nil
}

// CreateProfessional creates a new professional.
func (s *Store) CreateProfessional(ctx context.Context, professional *models.Professional) (*models.Professional, error) {
	professional.Id = uuid.New().String()
	professional.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, queryInsertProfessional,
		professional.Id, professional.Name, professional.WalletAddress, professional.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert professional: %w", err)
	}
	return professional, nil
}

// ListProfessionals retrieves all professionals.
func (s *Store) ListProfessionals(ctx context.Context) ([]models.Professional, error) {
	rows, err := s.db.QueryContext(ctx, queryListProfessionals)
	if err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	defer rows.Close()

	professionals := []models.Professional{}
	for rows.Next() {
		var p models.Professional
		if err := rows.Scan(&p.Id, &p.Name, &p.WalletAddress, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan professional: %w", err)
		}
		professionals = append(professionals, p)
	}
	return professionals, rows.Err()
}
