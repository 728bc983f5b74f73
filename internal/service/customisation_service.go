package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/util"

	"go.uber.org/zap"
)

const maxCustomisationDetails = 2000

// CustomisationService handles per-product customisation tickets
type CustomisationService struct {
	store  CustomisationStore
	logger *zap.Logger
}

// NewCustomisationService creates a new customisation service
func NewCustomisationService(store CustomisationStore) *CustomisationService {
	return &CustomisationService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CustomisationInput is the customer ticket payload
type CustomisationInput struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
	Details   string `json:"details" binding:"required"`
}

// Submit opens a ticket for an existing product
func (s *CustomisationService) Submit(ctx context.Context, userID string, in CustomisationInput) (*models.CustomisationRequest, error) {
	ctx, span := util.StartSpan(ctx, "CustomisationService.Submit")
	defer span.End()

	details := strings.TrimSpace(in.Details)
	if details == "" {
		return nil, fmt.Errorf("%w: details required", ErrInvalidInput)
	}
	if len(details) > maxCustomisationDetails {
		return nil, fmt.Errorf("%w: details too long", ErrInvalidInput)
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}

	if _, err := s.store.GetProductByID(ctx, in.ProductID); err != nil {
		return nil, err
	}

	req := &models.CustomisationRequest{
		UserID:    userID,
		ProductID: in.ProductID,
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Phone:     nonDigits.ReplaceAllString(in.Phone, ""),
		Details:   details,
		Status:    models.CustomisationOpen,
	}
	if err := s.store.CreateCustomisation(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to save customisation: %w", err)
	}

	s.logger.Info("Customisation requested",
		zap.Int64("id", req.ID),
		zap.Int64("product_id", req.ProductID),
		zap.String("user_id", userID))
	return req, nil
}

// ListMine returns the caller's tickets
func (s *CustomisationService) ListMine(ctx context.Context, userID string) ([]models.CustomisationRequest, error) {
	return s.store.ListCustomisationsByUser(ctx, userID)
}

// List returns all tickets, optionally by status
func (s *CustomisationService) List(ctx context.Context, status string) ([]models.CustomisationRequest, error) {
	if status != "" && !models.ValidCustomisationStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.store.ListCustomisations(ctx, status)
}

// UpdateStatus sets a ticket's status and admin note
func (s *CustomisationService) UpdateStatus(ctx context.Context, id int64, status, note string) (*models.CustomisationRequest, error) {
	ctx, span := util.StartSpan(ctx, "CustomisationService.UpdateStatus")
	defer span.End()

	if !models.ValidCustomisationStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.store.UpdateCustomisation(ctx, id, status, strings.TrimSpace(note))
}
