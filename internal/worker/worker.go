package worker

import (
	"context"

	"kurtis-boutique/internal/broker"
	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/util"

	"go.uber.org/zap"
)

// EventSource delivers broker messages to a handler until ctx is done
type EventSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// ShipmentRegistrar registers orders with the shipping aggregator
type ShipmentRegistrar interface {
	RegisterShipment(ctx context.Context, orderID int64) error
}

// Notifier sends the customer emails for an order
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, orderID int64) error
	SendShipmentNotice(ctx context.Context, orderID int64) error
}

// ShipmentWorker registers shipments for placed orders
type ShipmentWorker struct {
	source       EventSource
	eventHandler *broker.EventHandler
	registrar    ShipmentRegistrar
	logger       *zap.Logger
}

// NewShipmentWorker creates a new shipment worker
func NewShipmentWorker(source EventSource, registrar ShipmentRegistrar) *ShipmentWorker {
	w := &ShipmentWorker{
		source:       source,
		eventHandler: broker.NewEventHandler(),
		registrar:    registrar,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	return w
}

func (w *ShipmentWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	ctx, span := util.StartSpan(ctx, "ShipmentWorker.handleOrderPlaced")
	defer span.End()

	if err := w.registrar.RegisterShipment(ctx, event.OrderID); err != nil {
		// The order stands; an admin can register it later from the back office
		w.logger.Error("Shipment registration failed",
			zap.Int64("order_id", event.OrderID),
			zap.String("order_number", event.OrderNumber),
			zap.Error(err))
		return err
	}
	return nil
}

// Start starts the worker
func (w *ShipmentWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting shipment worker")
	return w.source.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ShipmentWorker) Stop() error {
	w.logger.Info("Stopping shipment worker")
	return w.source.Close()
}

// NotificationWorker emails customers about their orders
type NotificationWorker struct {
	source       EventSource
	eventHandler *broker.EventHandler
	notifier     Notifier
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(source EventSource, notifier Notifier) *NotificationWorker {
	w := &NotificationWorker{
		source:       source,
		eventHandler: broker.NewEventHandler(),
		notifier:     notifier,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnOrderPlaced(func(ctx context.Context, e *models.OrderPlacedEvent) error {
		return w.send(ctx, "order_confirmation", e.OrderID, w.notifier.SendOrderConfirmation)
	})
	w.eventHandler.OnShipmentRegistered(func(ctx context.Context, e *models.ShipmentRegisteredEvent) error {
		return w.send(ctx, "shipment_update", e.OrderID, w.notifier.SendShipmentNotice)
	})
	return w
}

func (w *NotificationWorker) send(ctx context.Context, kind string, orderID int64, fn func(context.Context, int64) error) error {
	if err := fn(ctx, orderID); err != nil {
		util.EmailsSentTotal.WithLabelValues(kind, "failed").Inc()
		w.logger.Warn("Email not sent",
			zap.String("kind", kind),
			zap.Int64("order_id", orderID),
			zap.Error(err))
		return err
	}
	util.EmailsSentTotal.WithLabelValues(kind, "sent").Inc()
	return nil
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.source.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.source.Close()
}
