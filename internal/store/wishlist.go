package store

import (
	"context"

	"kurtis-boutique/internal/models"
)

// AddWishlistItem stores a product in the wishlist, ignoring repeats
func (s *Store) AddWishlistItem(ctx context.Context, userID string, productID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		userID, productID)
	return err
}

// RemoveWishlistItem deletes a product from the wishlist
func (s *Store) RemoveWishlistItem(ctx context.Context, userID string, productID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2", userID, productID)
	return err
}

// ListWishlist retrieves wishlisted products, newest first
func (s *Store) ListWishlist(ctx context.Context, userID string) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, `
		SELECT p.* FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`, userID)
	return products, err
}
