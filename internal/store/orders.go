package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kurtis-boutique/internal/models"
)

// StatusChange describes one order status transition
type StatusChange struct {
	OrderID int64
	From    string
	To      string
	Note    string
	Restock bool
}

// PlaceOrder persists an order, its items and first timeline entry,
// decrements stock and drops the ordered lines from the buyer's cart in one
// transaction. Cart lines added after checkout stay in the cart.
func (s *Store) PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem, note string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (order_number, user_id, customer_name, customer_email, customer_phone,
			address_line1, address_line2, city, state, pincode, country,
			payment_method, payment_status, gateway_order_id, gateway_payment_id,
			subtotal, shipping_fee, cod_fee, total, status, courier_id, courier_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowxContext(ctx, query,
		order.OrderNumber, order.UserID, order.Name, order.Email, order.Phone,
		order.Line1, order.Line2, order.City, order.State, order.Pincode, order.Country,
		order.PaymentMethod, order.PaymentStatus, order.GatewayOrderID, order.GatewayPaymentID,
		order.Subtotal, order.ShippingFee, order.CODFee, order.Total, order.Status,
		order.CourierID, order.CourierName,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("order %s: %w", order.OrderNumber, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		err := tx.GetContext(ctx, &items[i].ID, `
			INSERT INTO order_items (order_id, product_id, product_name, size, unit_price, quantity, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			order.ID, items[i].ProductID, items[i].ProductName, items[i].Size,
			items[i].UnitPrice, items[i].Quantity, items[i].ImageURL)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "SELECT decrement_stock($1, $2)",
			items[i].ProductID, items[i].Quantity); err != nil {
			return fmt.Errorf("failed to decrement stock for product %d: %w", items[i].ProductID, err)
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2 AND size = $3",
			order.UserID, items[i].ProductID, items[i].Size); err != nil {
			return fmt.Errorf("failed to clear cart line: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO order_timeline (order_id, status, note) VALUES ($1, $2, $3)",
		order.ID, order.Status, note); err != nil {
		return fmt.Errorf("failed to insert timeline: %w", err)
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByPaymentID retrieves the order created for a gateway payment
func (s *Store) GetOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE gateway_payment_id = $1", paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order for payment %s: %w", paymentID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByUserID retrieves orders for a user
func (s *Store) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// ListOrders retrieves a page of orders, optionally by status
func (s *Store) ListOrders(ctx context.Context, status string, limit, offset int) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, status, limit, offset)
	return orders, err
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// GetOrderTimeline retrieves the status log of an order, oldest first
func (s *Store) GetOrderTimeline(ctx context.Context, orderID int64) ([]models.OrderTimeline, error) {
	entries := []models.OrderTimeline{}
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM order_timeline WHERE order_id = $1 ORDER BY created_at, id", orderID)
	return entries, err
}

// UpdateOrderStatus moves an order from one status to another, appends the
// timeline entry and optionally puts the items back into stock
func (s *Store) UpdateOrderStatus(ctx context.Context, change StatusChange) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
			payment_status = CASE WHEN $1 = 'refunded' THEN 'refunded' ELSE payment_status END,
			updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		change.To, change.OrderID, change.From)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("order %d: %w", change.OrderID, ErrStaleStatus)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO order_timeline (order_id, status, note) VALUES ($1, $2, $3)",
		change.OrderID, change.To, change.Note); err != nil {
		return fmt.Errorf("failed to insert timeline: %w", err)
	}

	if change.Restock {
		if _, err := tx.ExecContext(ctx, `
			SELECT increment_stock(product_id, quantity)
			FROM order_items WHERE order_id = $1`, change.OrderID); err != nil {
			return fmt.Errorf("failed to restock: %w", err)
		}
	}

	return tx.Commit()
}

// UpdateShipment mirrors aggregator fields onto the order
func (s *Store) UpdateShipment(ctx context.Context, orderID int64, u models.ShipmentUpdate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET
			shiprocket_order_id = CASE WHEN $1::bigint > 0 THEN $1::bigint ELSE shiprocket_order_id END,
			shipment_id = CASE WHEN $2::bigint > 0 THEN $2::bigint ELSE shipment_id END,
			courier_id = CASE WHEN $3::bigint > 0 THEN $3::bigint ELSE courier_id END,
			courier_name = COALESCE(NULLIF($4, ''), courier_name),
			awb_code = COALESCE(NULLIF($5, ''), awb_code),
			tracking_url = COALESCE(NULLIF($6, ''), tracking_url),
			label_url = COALESCE(NULLIF($7, ''), label_url),
			invoice_url = COALESCE(NULLIF($8, ''), invoice_url),
			updated_at = NOW()
		WHERE id = $9`,
		u.ShiprocketOrderID, u.ShipmentID, u.CourierID, u.CourierName,
		u.AWBCode, u.TrackingURL, u.LabelURL, u.InvoiceURL, orderID)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("order %d", orderID))
}
