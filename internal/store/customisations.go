package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kurtis-boutique/internal/models"
)

// CreateCustomisation inserts a customisation ticket
func (s *Store) CreateCustomisation(ctx context.Context, r *models.CustomisationRequest) error {
	query := `
		INSERT INTO customisation_requests (user_id, product_id, name, email, phone, details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		r.UserID, r.ProductID, r.Name, r.Email, r.Phone, r.Details, r.Status,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// ListCustomisations retrieves tickets, optionally by status
func (s *Store) ListCustomisations(ctx context.Context, status string) ([]models.CustomisationRequest, error) {
	out := []models.CustomisationRequest{}
	err := s.db.SelectContext(ctx, &out,
		"SELECT * FROM customisation_requests WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC",
		status)
	return out, err
}

// ListCustomisationsByUser retrieves a customer's own tickets
func (s *Store) ListCustomisationsByUser(ctx context.Context, userID string) ([]models.CustomisationRequest, error) {
	out := []models.CustomisationRequest{}
	err := s.db.SelectContext(ctx, &out,
		"SELECT * FROM customisation_requests WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return out, err
}

// UpdateCustomisation sets status and admin note
func (s *Store) UpdateCustomisation(ctx context.Context, id int64, status, note string) (*models.CustomisationRequest, error) {
	var r models.CustomisationRequest
	err := s.db.GetContext(ctx, &r, `
		UPDATE customisation_requests
		SET status = $1, admin_note = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING *`, status, note, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customisation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
