package service

import (
	"context"
	"time"

	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/payment"
	"kurtis-boutique/internal/shipping"
	"kurtis-boutique/internal/store"
)

// ProductReader loads single products
type ProductReader interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// CatalogStore is the catalog persistence used by CatalogService
type CatalogStore interface {
	ProductReader
	ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	SetProductActive(ctx context.Context, id int64, active bool) error
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// CartStore is the cart persistence used by CartService
type CartStore interface {
	ProductReader
	GetCartItem(ctx context.Context, userID string, productID int64, size string) (*models.CartItem, error)
	GetCartItemByID(ctx context.Context, userID string, id int64) (*models.CartItem, error)
	InsertCartItem(ctx context.Context, item *models.CartItem) error
	UpdateCartQuantity(ctx context.Context, userID string, id int64, quantity int) error
	DeleteCartItem(ctx context.Context, userID string, id int64) error
	ListCartLines(ctx context.Context, userID string) ([]models.CartLine, error)
	ClearCart(ctx context.Context, userID string) error
}

// OrderStore is the order persistence used by checkout, shipment and order services
type OrderStore interface {
	ListCartLines(ctx context.Context, userID string) ([]models.CartLine, error)
	PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem, note string) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
	ListOrders(ctx context.Context, status string, limit, offset int) ([]models.Order, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	GetOrderTimeline(ctx context.Context, orderID int64) ([]models.OrderTimeline, error)
	UpdateOrderStatus(ctx context.Context, change store.StatusChange) error
	UpdateShipment(ctx context.Context, orderID int64, u models.ShipmentUpdate) error
}

// CustomisationStore is the ticket persistence used by CustomisationService
type CustomisationStore interface {
	ProductReader
	CreateCustomisation(ctx context.Context, r *models.CustomisationRequest) error
	ListCustomisations(ctx context.Context, status string) ([]models.CustomisationRequest, error)
	ListCustomisationsByUser(ctx context.Context, userID string) ([]models.CustomisationRequest, error)
	UpdateCustomisation(ctx context.Context, id int64, status, note string) (*models.CustomisationRequest, error)
}

// WishlistStore is the wishlist persistence used by WishlistService
type WishlistStore interface {
	ProductReader
	AddWishlistItem(ctx context.Context, userID string, productID int64) error
	RemoveWishlistItem(ctx context.Context, userID string, productID int64) error
	ListWishlist(ctx context.Context, userID string) ([]models.Product, error)
}

// Cache holds checkout quotes, rate lookups, locks and idempotency keys
type Cache interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey string) error
	SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetIdempotencyKey(ctx context.Context, key string) (string, error)
}

// PaymentGateway is the online payment provider
type PaymentGateway interface {
	KeyID() string
	Currency() string
	CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error)
	FetchOrder(ctx context.Context, orderID string) (*payment.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	Refund(ctx context.Context, paymentID string, amountPaise int64) (*payment.Refund, error)
}

// Shipper is the shipping aggregator
type Shipper interface {
	Rates(ctx context.Context, deliveryPostcode string, weightKg float64, cod bool) ([]shipping.Rate, error)
	CheapestRate(ctx context.Context, deliveryPostcode string, weightKg float64, cod bool) (*shipping.Rate, error)
	CreateOrder(ctx context.Context, req shipping.CreateOrderRequest) (*shipping.CreateOrderResponse, error)
	AssignAWB(ctx context.Context, shipmentID, courierID int64) (*shipping.AWBAssignment, error)
	GeneratePickup(ctx context.Context, shipmentID int64) (*shipping.Pickup, error)
	GenerateLabel(ctx context.Context, shipmentID int64) (string, error)
	GenerateInvoice(ctx context.Context, shiprocketOrderID int64) (string, error)
	TrackAWB(ctx context.Context, awb string) (*shipping.Tracking, error)
	CancelOrders(ctx context.Context, shiprocketOrderIDs ...int64) error
}

// EventPublisher publishes order domain events
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishShipmentRegistered(ctx context.Context, event *models.ShipmentRegisteredEvent) error
}

// Mailer sends transactional emails
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, items []models.OrderItem) error
	SendShipmentUpdate(ctx context.Context, order *models.Order) error
}

// ShipmentRegistrar registers orders with the shipping aggregator
type ShipmentRegistrar interface {
	RegisterShipment(ctx context.Context, orderID int64) error
}
