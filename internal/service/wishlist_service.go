package service

import (
	"context"
	"fmt"

	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/util"
)

// WishlistService keeps the server copy of a user's wishlist
type WishlistService struct {
	store WishlistStore
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(store WishlistStore) *WishlistService {
	return &WishlistService{store: store}
}

// List returns the wishlisted products
func (s *WishlistService) List(ctx context.Context, userID string) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "WishlistService.List")
	defer span.End()

	return s.store.ListWishlist(ctx, userID)
}

// Add wishlists an active product; adding twice is a no-op
func (s *WishlistService) Add(ctx context.Context, userID string, productID int64) error {
	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	return s.store.AddWishlistItem(ctx, userID, productID)
}

// Remove drops a product from the wishlist
func (s *WishlistService) Remove(ctx context.Context, userID string, productID int64) error {
	return s.store.RemoveWishlistItem(ctx, userID, productID)
}
