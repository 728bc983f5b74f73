package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kurtis-boutique/internal/models"
)

// GetCartItem looks up the row for a (user, product, size) triple
func (s *Store) GetCartItem(ctx context.Context, userID string, productID int64, size string) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT * FROM cart_items WHERE user_id = $1 AND product_id = $2 AND size = $3",
		userID, productID, size)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart item: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCartItemByID retrieves a cart row owned by the user
func (s *Store) GetCartItemByID(ctx context.Context, userID string, id int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT * FROM cart_items WHERE id = $1 AND user_id = $2", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// InsertCartItem creates a new cart row
func (s *Store) InsertCartItem(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, size, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowxContext(ctx, query, item.UserID, item.ProductID, item.Size, item.Quantity).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("cart item: %w", ErrDuplicate)
	}
	return err
}

// UpdateCartQuantity sets the quantity of a cart row
func (s *Store) UpdateCartQuantity(ctx context.Context, userID string, id int64, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3",
		quantity, id, userID)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("cart item %d", id))
}

// DeleteCartItem removes a cart row
func (s *Store) DeleteCartItem(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("cart item %d", id))
}

// ListCartLines retrieves the cart joined with current product data
func (s *Store) ListCartLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	query := `
		SELECT c.id, c.product_id, c.size, c.quantity,
			p.name, p.price, p.discount_price, p.stock_remaining, p.weight_kg, p.is_active,
			COALESCE((SELECT i.url FROM product_images i
				WHERE i.product_id = p.id ORDER BY i.position LIMIT 1), '') AS image_url
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at, c.id`

	lines := []models.CartLine{}
	err := s.db.SelectContext(ctx, &lines, query, userID)
	return lines, err
}

// ClearCart removes every row of a user's cart
func (s *Store) ClearCart(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}
