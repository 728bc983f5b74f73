package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/store"
	"kurtis-boutique/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OrderDetails is an order with its items and status log
type OrderDetails struct {
	*models.Order
	Items    []models.OrderItem     `json:"items"`
	Timeline []models.OrderTimeline `json:"timeline"`
}

// OrderService serves a customer's own orders
type OrderService struct {
	store     OrderStore
	shipper   Shipper
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store OrderStore, shipper Shipper, publisher EventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		shipper:   shipper,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// ListMyOrders returns the user's orders, newest first
func (s *OrderService) ListMyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListMyOrders")
	defer span.End()

	return s.store.GetOrdersByUserID(ctx, userID)
}

// GetMyOrder returns one of the user's orders; other users' orders are not found
func (s *OrderService) GetMyOrder(ctx context.Context, userID string, orderID int64) (*OrderDetails, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetMyOrder")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return loadDetails(ctx, s.store, order)
}

// CancelMyOrder cancels an order that has not shipped yet
func (s *OrderService) CancelMyOrder(ctx context.Context, userID string, orderID int64) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CancelMyOrder")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if !models.IsCustomerCancellable(order.Status) {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, order.Status)
	}

	return changeStatus(ctx, s.store, s.shipper, s.publisher, s.logger, order, models.OrderStatusCancelled, "Cancelled by customer")
}

// loadDetails fetches items and timeline concurrently
func loadDetails(ctx context.Context, st OrderStore, order *models.Order) (*OrderDetails, error) {
	details := &OrderDetails{Order: order}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := st.GetOrderItemsByOrderID(gctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}
		details.Items = items
		return nil
	})
	g.Go(func() error {
		timeline, err := st.GetOrderTimeline(gctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to load order timeline: %w", err)
		}
		details.Timeline = timeline
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

// changeStatus applies a validated transition shared by customer and admin
// paths: restock on cancel, cancel at the aggregator, publish the change
func changeStatus(
	ctx context.Context,
	st OrderStore,
	shipper Shipper,
	publisher EventPublisher,
	logger *zap.Logger,
	order *models.Order,
	to, note string,
) (*models.Order, error) {
	from := order.Status
	if !models.CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}

	change := store.StatusChange{
		OrderID: order.ID,
		From:    from,
		To:      to,
		Note:    note,
		Restock: to == models.OrderStatusCancelled,
	}
	if err := st.UpdateOrderStatus(ctx, change); err != nil {
		if errors.Is(err, store.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: order changed concurrently", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	util.OrderStatusChangesTotal.WithLabelValues(to).Inc()

	if to == models.OrderStatusCancelled && order.ShiprocketOrderID != 0 && shipper != nil {
		if err := shipper.CancelOrders(ctx, order.ShiprocketOrderID); err != nil {
			logger.Error("Failed to cancel aggregator order",
				zap.Int64("order_id", order.ID),
				zap.Int64("shiprocket_order_id", order.ShiprocketOrderID),
				zap.Error(err))
		}
	}

	logger.Info("Order status changed",
		zap.Int64("order_id", order.ID),
		zap.String("from", from),
		zap.String("to", to))

	if publisher != nil {
		event := &models.OrderStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.NewString(),
				EventType: models.EventTypeOrderStatusChanged,
				Timestamp: time.Now(),
			},
			OrderID: order.ID,
			From:    from,
			To:      to,
			Note:    note,
		}
		if err := publisher.PublishStatusChanged(ctx, event); err != nil {
			logger.Warn("Failed to publish status change", zap.Int64("order_id", order.ID), zap.Error(err))
		}
	}

	updated, err := st.GetOrderByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
