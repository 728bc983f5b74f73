package service

import (
	"context"
	"fmt"
	"strings"

	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/payment"
	"kurtis-boutique/internal/shipping"
	"kurtis-boutique/internal/util"

	"go.uber.org/zap"
)

// AdminService runs back-office order and shipment actions
type AdminService struct {
	store     OrderStore
	shipper   Shipper
	gateway   PaymentGateway
	publisher EventPublisher
	shipments ShipmentRegistrar
	unitKg    float64
	logger    *zap.Logger
}

// NewAdminService creates a new admin service
// unitKg is the parcel weight per unit used when no weight is given.
func NewAdminService(store OrderStore, shipper Shipper, gateway PaymentGateway, publisher EventPublisher, shipments ShipmentRegistrar, unitKg float64) *AdminService {
	return &AdminService{
		store:     store,
		shipper:   shipper,
		gateway:   gateway,
		publisher: publisher,
		shipments: shipments,
		unitKg:    unitKg,
		logger:    util.GetLogger(),
	}
}

// OrderQuery filters the admin order list
type OrderQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ListOrders returns a page of orders, optionally by status
func (s *AdminService) ListOrders(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.ListOrders")
	defer span.End()

	if q.Status != "" && !models.ValidOrderStatus(q.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, q.Status)
	}
	limit, offset := paginate(q.Page, q.PageSize)
	return s.store.ListOrders(ctx, q.Status, limit, offset)
}

// GetOrder returns any order with items and timeline
func (s *AdminService) GetOrder(ctx context.Context, orderID int64) (*OrderDetails, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.GetOrder")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return loadDetails(ctx, s.store, order)
}

// UpdateStatus moves an order along the status machine. Only money that was
// taken can be refunded: a paid online order is refunded in full at the
// gateway first, and a COD order only once it was delivered and collected.
func (s *AdminService) UpdateStatus(ctx context.Context, orderID int64, to, note string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.UpdateStatus")
	defer span.End()

	if !models.ValidOrderStatus(to) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, to)
	}

	if to == models.OrderStatusRefunded && !refundable(order) {
		return nil, fmt.Errorf("%w: %s order with payment %s has nothing to refund",
			ErrInvalidTransition, order.PaymentMethod, order.PaymentStatus)
	}

	if to == models.OrderStatusRefunded && order.PaymentMethod == models.PaymentMethodOnline {
		refund, err := s.gateway.Refund(ctx, order.GatewayPaymentID, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to refund payment: %w", err)
		}
		s.logger.Info("Payment refunded",
			zap.Int64("order_id", orderID),
			zap.String("refund_id", refund.ID),
			zap.String("amount", payment.FromPaise(refund.Amount).String()))
		if note == "" {
			note = "Refund " + refund.ID
		}
	}

	if note == "" {
		note = "Status set to " + to
	}
	return changeStatus(ctx, s.store, s.shipper, s.publisher, s.logger, order, to, note)
}

func refundable(order *models.Order) bool {
	switch order.PaymentMethod {
	case models.PaymentMethodOnline:
		return order.PaymentStatus == models.PaymentStatusPaid
	case models.PaymentMethodCOD:
		return order.Status == models.OrderStatusDelivered
	}
	return false
}

// CourierOptions lists couriers serving the order's pincode, cheapest first.
// A non-positive weight is derived from the order's unit count.
func (s *AdminService) CourierOptions(ctx context.Context, orderID int64, weightKg float64) ([]shipping.Rate, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.CourierOptions")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if weightKg <= 0 {
		items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		weightKg = weightBand(s.unitKg * float64(max(unitCount(items), 1)))
	}
	return s.shipper.Rates(ctx, order.Pincode, weightKg, order.PaymentMethod == models.PaymentMethodCOD)
}

// AssignCourier assigns an AWB with the given courier. courierID zero uses the
// courier quoted at checkout, if any. The shipment is registered first when needed.
func (s *AdminService) AssignCourier(ctx context.Context, orderID, courierID int64) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.AssignCourier")
	defer span.End()

	order, err := s.shippableOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.ShipmentID == 0 {
		if err := s.shipments.RegisterShipment(ctx, orderID); err != nil {
			return nil, err
		}
		if order, err = s.store.GetOrderByID(ctx, orderID); err != nil {
			return nil, err
		}
		if order.ShipmentID == 0 {
			return nil, fmt.Errorf("%w: order has no shipment", ErrConflict)
		}
	}

	if courierID == 0 {
		courierID = order.CourierID
	}

	awb, err := s.shipper.AssignAWB(ctx, order.ShipmentID, courierID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign courier: %w", err)
	}

	update := models.ShipmentUpdate{
		CourierID:   awb.CourierID,
		CourierName: awb.CourierName,
		AWBCode:     awb.AWBCode,
		TrackingURL: TrackingURL(awb.AWBCode),
	}
	if err := s.store.UpdateShipment(ctx, orderID, update); err != nil {
		return nil, fmt.Errorf("failed to store courier: %w", err)
	}
	s.logger.Info("Courier assigned",
		zap.Int64("order_id", orderID),
		zap.String("awb", awb.AWBCode),
		zap.String("courier", awb.CourierName))

	if order.Status == models.OrderStatusPending || order.Status == models.OrderStatusConfirmed {
		return changeStatus(ctx, s.store, s.shipper, s.publisher, s.logger, order,
			models.OrderStatusProcessing, "AWB "+awb.AWBCode+" assigned via "+awb.CourierName)
	}
	return s.store.GetOrderByID(ctx, orderID)
}

// SchedulePickup books a courier pickup and marks the order shipped
func (s *AdminService) SchedulePickup(ctx context.Context, orderID int64) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.SchedulePickup")
	defer span.End()

	order, err := s.shippableOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.AWBCode == "" {
		return nil, fmt.Errorf("%w: assign a courier first", ErrConflict)
	}

	pickup, err := s.shipper.GeneratePickup(ctx, order.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule pickup: %w", err)
	}

	note := "Pickup scheduled"
	if pickup.ScheduledDate != "" {
		note += " for " + pickup.ScheduledDate
	}
	if models.CanTransition(order.Status, models.OrderStatusShipped) {
		return changeStatus(ctx, s.store, s.shipper, s.publisher, s.logger, order, models.OrderStatusShipped, note)
	}
	return order, nil
}

// GenerateLabel creates the shipping label and stores its URL
func (s *AdminService) GenerateLabel(ctx context.Context, orderID int64) (string, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.GenerateLabel")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.ShipmentID == 0 {
		return "", fmt.Errorf("%w: order has no shipment", ErrConflict)
	}

	url, err := s.shipper.GenerateLabel(ctx, order.ShipmentID)
	if err != nil {
		return "", fmt.Errorf("failed to generate label: %w", err)
	}
	if err := s.store.UpdateShipment(ctx, orderID, models.ShipmentUpdate{LabelURL: url}); err != nil {
		return "", err
	}
	return url, nil
}

// GenerateInvoice creates the invoice and stores its URL
func (s *AdminService) GenerateInvoice(ctx context.Context, orderID int64) (string, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.GenerateInvoice")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.ShiprocketOrderID == 0 {
		return "", fmt.Errorf("%w: order has no shipment", ErrConflict)
	}

	url, err := s.shipper.GenerateInvoice(ctx, order.ShiprocketOrderID)
	if err != nil {
		return "", fmt.Errorf("failed to generate invoice: %w", err)
	}
	if err := s.store.UpdateShipment(ctx, orderID, models.ShipmentUpdate{InvoiceURL: url}); err != nil {
		return "", err
	}
	return url, nil
}

// TrackingResult is the aggregator tracking state and the order after mirroring
type TrackingResult struct {
	Tracking *shipping.Tracking `json:"tracking"`
	Order    *models.Order      `json:"order"`
}

// TrackShipment fetches tracking and mirrors the courier status onto the order
func (s *AdminService) TrackShipment(ctx context.Context, orderID int64) (*TrackingResult, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.TrackShipment")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.AWBCode == "" {
		return nil, fmt.Errorf("%w: order has no AWB", ErrConflict)
	}

	tracking, err := s.shipper.TrackAWB(ctx, order.AWBCode)
	if err != nil {
		return nil, fmt.Errorf("failed to track shipment: %w", err)
	}

	target := MapTrackingStatus(tracking.CurrentStatus)
	for _, step := range mirrorPath(order.Status, target) {
		order, err = changeStatus(ctx, s.store, s.shipper, s.publisher, s.logger, order, step,
			"Courier status: "+tracking.CurrentStatus)
		if err != nil {
			return nil, err
		}
	}

	return &TrackingResult{Tracking: tracking, Order: order}, nil
}

func (s *AdminService) shippableOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case models.OrderStatusCancelled, models.OrderStatusRefunded, models.OrderStatusDelivered:
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, order.Status)
	}
	return order, nil
}

// MapTrackingStatus maps an aggregator status label to an order status,
// or "" when the label has no order-level meaning
func MapTrackingStatus(courierStatus string) string {
	s := strings.ToUpper(strings.TrimSpace(courierStatus))
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "UNDELIVERED"), strings.HasPrefix(s, "RTO"):
		return ""
	case strings.Contains(s, "DELIVERED"):
		return models.OrderStatusDelivered
	case strings.Contains(s, "IN TRANSIT"), strings.Contains(s, "OUT FOR DELIVERY"),
		strings.Contains(s, "REACHED"), strings.Contains(s, "IN_TRANSIT"):
		return models.OrderStatusInTransit
	case strings.Contains(s, "PICKED UP"), strings.Contains(s, "SHIPPED"):
		return models.OrderStatusShipped
	}
	return ""
}

// mirrorPath returns the transitions that bring from to target, stepping
// through shipped when there is no direct edge; nil when nothing applies
func mirrorPath(from, target string) []string {
	if target == "" || target == from {
		return nil
	}
	if models.CanTransition(from, target) {
		return []string{target}
	}
	if models.CanTransition(from, models.OrderStatusShipped) &&
		models.CanTransition(models.OrderStatusShipped, target) {
		return []string{models.OrderStatusShipped, target}
	}
	return nil
}
