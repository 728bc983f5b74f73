package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kurtis-boutique/config"
	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/shipping"
	"kurtis-boutique/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShipmentService registers placed orders with the shipping aggregator
// and sends the customer emails that go with them
type ShipmentService struct {
	store     OrderStore
	shipper   Shipper
	publisher EventPublisher
	mailer    Mailer
	parcel    config.ShiprocketConfig
	logger    *zap.Logger
}

// NewShipmentService creates a new shipment service
func NewShipmentService(store OrderStore, shipper Shipper, publisher EventPublisher, mailer Mailer, parcel config.ShiprocketConfig) *ShipmentService {
	return &ShipmentService{
		store:     store,
		shipper:   shipper,
		publisher: publisher,
		mailer:    mailer,
		parcel:    parcel,
		logger:    util.GetLogger(),
	}
}

// RegisterShipment creates the aggregator order for a placed order. It is a
// no-op when the order is already registered or has been cancelled.
func (s *ShipmentService) RegisterShipment(ctx context.Context, orderID int64) error {
	ctx, span := util.StartSpan(ctx, "ShipmentService.RegisterShipment")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.ShiprocketOrderID != 0 {
		s.logger.Debug("Shipment already registered", zap.Int64("order_id", orderID))
		return nil
	}
	if order.Status == models.OrderStatusCancelled || order.Status == models.OrderStatusRefunded {
		s.logger.Info("Skipping shipment for closed order",
			zap.Int64("order_id", orderID),
			zap.String("status", order.Status))
		return nil
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	req := s.buildRequest(order, items)
	resp, err := s.shipper.CreateOrder(ctx, req)
	if err != nil {
		util.ShipmentsRegisteredTotal.WithLabelValues("failed").Inc()
		s.logger.Error("Failed to register shipment",
			zap.Int64("order_id", orderID),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return util.SpanError(span, fmt.Errorf("failed to register shipment: %w", err))
	}

	update := models.ShipmentUpdate{
		ShiprocketOrderID: resp.OrderID,
		ShipmentID:        resp.ShipmentID,
		AWBCode:           resp.AWBCode,
		CourierName:       resp.CourierName,
	}
	if resp.AWBCode != "" {
		update.TrackingURL = TrackingURL(resp.AWBCode)
	}
	if err := s.store.UpdateShipment(ctx, orderID, update); err != nil {
		return util.SpanError(span, fmt.Errorf("failed to store shipment ids: %w", err))
	}

	util.ShipmentsRegisteredTotal.WithLabelValues("success").Inc()
	s.logger.Info("Shipment registered",
		zap.Int64("order_id", orderID),
		zap.Int64("shiprocket_order_id", resp.OrderID),
		zap.Int64("shipment_id", resp.ShipmentID))

	event := &models.ShipmentRegisteredEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.NewString(),
			EventType: models.EventTypeShipmentRegistered,
			Timestamp: time.Now(),
		},
		OrderID:           orderID,
		ShiprocketOrderID: resp.OrderID,
		ShipmentID:        resp.ShipmentID,
	}
	if err := s.publisher.PublishShipmentRegistered(ctx, event); err != nil {
		s.logger.Warn("Failed to publish shipment registered", zap.Int64("order_id", orderID), zap.Error(err))
	}
	return nil
}

func (s *ShipmentService) buildRequest(order *models.Order, items []models.OrderItem) shipping.CreateOrderRequest {
	first, last := splitName(order.Name)

	method := "Prepaid"
	if order.PaymentMethod == models.PaymentMethodCOD {
		method = "COD"
	}

	lines := make([]shipping.OrderItem, 0, len(items))
	for _, it := range items {
		price, _ := it.UnitPrice.Float64()
		sku := fmt.Sprintf("P%d", it.ProductID)
		if it.Size != "" {
			sku += "-" + it.Size
		}
		lines = append(lines, shipping.OrderItem{
			Name:         it.ProductName,
			SKU:          sku,
			Units:        it.Quantity,
			SellingPrice: price,
		})
	}

	subtotal, _ := order.Subtotal.Float64()
	shippingFee, _ := order.ShippingFee.Add(order.CODFee).Float64()
	weight := s.parcel.DefaultWeight * float64(unitCount(items))
	if weight <= 0 {
		weight = s.parcel.DefaultWeight
	}

	return shipping.CreateOrderRequest{
		OrderID:             order.OrderNumber,
		OrderDate:           order.CreatedAt.Format("2006-01-02 15:04"),
		PickupLocation:      s.parcel.PickupLocation,
		BillingCustomerName: first,
		BillingLastName:     last,
		BillingAddress:      order.Line1,
		BillingAddress2:     order.Line2,
		BillingCity:         order.City,
		BillingPincode:      order.Pincode,
		BillingState:        order.State,
		BillingCountry:      order.Country,
		BillingEmail:        order.Email,
		BillingPhone:        order.Phone,
		ShippingIsBilling:   true,
		OrderItems:          lines,
		PaymentMethod:       method,
		ShippingCharges:     shippingFee,
		SubTotal:            subtotal,
		Length:              s.parcel.LengthCm,
		Breadth:             s.parcel.BreadthCm,
		Height:              s.parcel.HeightCm,
		Weight:              weight,
	}
}

// SendOrderConfirmation emails the order summary to the customer
func (s *ShipmentService) SendOrderConfirmation(ctx context.Context, orderID int64) error {
	ctx, span := util.StartSpan(ctx, "ShipmentService.SendOrderConfirmation")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	return s.mailer.SendOrderConfirmation(ctx, order, items)
}

// SendShipmentNotice emails the courier details once a shipment exists
func (s *ShipmentService) SendShipmentNotice(ctx context.Context, orderID int64) error {
	ctx, span := util.StartSpan(ctx, "ShipmentService.SendShipmentNotice")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	return s.mailer.SendShipmentUpdate(ctx, order)
}

// TrackingURL is the public tracking page for an AWB
func TrackingURL(awb string) string {
	return "https://shiprocket.co/tracking/" + awb
}

// splitName separates the first word from the rest; both parts are required by the aggregator
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "Customer", "."
	case 1:
		return parts[0], "."
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
