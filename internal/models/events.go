package models

import "time"

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeShipmentRegistered = "SHIPMENT_REGISTERED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published once an order row exists
type OrderPlacedEvent struct {
	BaseEvent
	OrderID       int64  `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	UserID        string `json:"user_id"`
	PaymentMethod string `json:"payment_method"`
	Total         string `json:"total"`
}

// OrderStatusChangedEvent published on every admin or customer status change
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Note    string `json:"note,omitempty"`
}

// ShipmentRegisteredEvent published after the courier aggregator accepted the order
type ShipmentRegisteredEvent struct {
	BaseEvent
	OrderID           int64 `json:"order_id"`
	ShiprocketOrderID int64 `json:"shiprocket_order_id"`
	ShipmentID        int64 `json:"shipment_id"`
}
