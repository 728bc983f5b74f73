package api

import (
	"context"

	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/service"
	"kurtis-boutique/internal/shipping"
)

// Services the handler dispatches to. Implemented by the service package.

type CatalogService interface {
	ListProducts(ctx context.Context, q service.ProductQuery) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64, includeInactive bool) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateProduct(ctx context.Context, in service.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, in service.ProductInput) (*models.Product, error)
	SetProductActive(ctx context.Context, id int64, active bool) error
}

type CartService interface {
	GetCart(ctx context.Context, userID string) (*service.Cart, error)
	AddItem(ctx context.Context, userID string, req service.AddItemRequest) (*service.Cart, error)
	MergeItems(ctx context.Context, userID string, items []service.AddItemRequest) (*service.MergeResult, error)
	UpdateQuantity(ctx context.Context, userID string, itemID int64, quantity int) (*service.Cart, error)
	RemoveItem(ctx context.Context, userID string, itemID int64) (*service.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type WishlistService interface {
	List(ctx context.Context, userID string) ([]models.Product, error)
	Add(ctx context.Context, userID string, productID int64) error
	Remove(ctx context.Context, userID string, productID int64) error
}

type CheckoutService interface {
	Initiate(ctx context.Context, userID string, addr models.ShippingAddress) (*service.CheckoutSession, error)
	VerifyPayment(ctx context.Context, userID string, req service.VerifyRequest) (*models.Order, error)
	CreateCODOrder(ctx context.Context, userID, idempotencyKey string, addr models.ShippingAddress) (*models.Order, error)
}

type OrderService interface {
	ListMyOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetMyOrder(ctx context.Context, userID string, orderID int64) (*service.OrderDetails, error)
	CancelMyOrder(ctx context.Context, userID string, orderID int64) (*models.Order, error)
}

type CustomisationService interface {
	Submit(ctx context.Context, userID string, in service.CustomisationInput) (*models.CustomisationRequest, error)
	ListMine(ctx context.Context, userID string) ([]models.CustomisationRequest, error)
	List(ctx context.Context, status string) ([]models.CustomisationRequest, error)
	UpdateStatus(ctx context.Context, id int64, status, note string) (*models.CustomisationRequest, error)
}

type AdminService interface {
	ListOrders(ctx context.Context, q service.OrderQuery) ([]models.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*service.OrderDetails, error)
	UpdateStatus(ctx context.Context, orderID int64, to, note string) (*models.Order, error)
	CourierOptions(ctx context.Context, orderID int64, weightKg float64) ([]shipping.Rate, error)
	AssignCourier(ctx context.Context, orderID, courierID int64) (*models.Order, error)
	SchedulePickup(ctx context.Context, orderID int64) (*models.Order, error)
	GenerateLabel(ctx context.Context, orderID int64) (string, error)
	GenerateInvoice(ctx context.Context, orderID int64) (string, error)
	TrackShipment(ctx context.Context, orderID int64) (*service.TrackingResult, error)
}

type ShipmentService interface {
	RegisterShipment(ctx context.Context, orderID int64) error
}

// Pinger reports whether a backing dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups everything the HTTP layer needs
type Services struct {
	Catalog        CatalogService
	Cart           CartService
	Wishlist       WishlistService
	Checkout       CheckoutService
	Orders         OrderService
	Customisations CustomisationService
	Admin          AdminService
	Shipments      ShipmentService
}
