package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products in the catalog
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

// Product represents a catalog item
type Product struct {
	ID             int64           `db:"id" json:"id"`
	CategoryID     *int64          `db:"category_id" json:"category_id,omitempty"`
	Name           string          `db:"name" json:"name"`
	Slug           string          `db:"slug" json:"slug"`
	Description    string          `db:"description" json:"description"`
	Price          decimal.Decimal `db:"price" json:"price"`
	DiscountPrice  decimal.Decimal `db:"discount_price" json:"discount_price"`
	StockRemaining int             `db:"stock_remaining" json:"stock_remaining"`
	WeightKg       decimal.Decimal `db:"weight_kg" json:"weight_kg"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`

	Sizes    []ProductSize  `db:"-" json:"sizes,omitempty"`
	Images   []ProductImage `db:"-" json:"images,omitempty"`
	Category *Category      `db:"-" json:"category,omitempty"`
}

// EffectivePrice is the discounted price when a valid discount is set
func (p *Product) EffectivePrice() decimal.Decimal {
	return EffectivePrice(p.Price, p.DiscountPrice)
}

// HasSize reports whether the product is offered in the given size.
// Products without any sizes accept only the empty size.
func (p *Product) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return size == ""
	}
	for _, s := range p.Sizes {
		if s.Size == size {
			return true
		}
	}
	return false
}

// EffectivePrice picks the discount price when it is positive and below price
func EffectivePrice(price, discount decimal.Decimal) decimal.Decimal {
	if discount.IsPositive() && discount.LessThan(price) {
		return discount
	}
	return price
}

// ProductSize is one size a product is offered in
type ProductSize struct {
	ID        int64  `db:"id" json:"id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	Size      string `db:"size" json:"size"`
}

// ProductImage is an ordered product photo
type ProductImage struct {
	ID        int64  `db:"id" json:"id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	URL       string `db:"url" json:"url"`
	Position  int    `db:"position" json:"position"`
}

// CartItem is one (user, product, size) row of a cart
type CartItem struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Size      string    `db:"size" json:"size"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CartLine is a cart item joined with the product fields checkout needs
type CartLine struct {
	ID             int64           `db:"id" json:"id"`
	ProductID      int64           `db:"product_id" json:"product_id"`
	Size           string          `db:"size" json:"size"`
	Quantity       int             `db:"quantity" json:"quantity"`
	Name           string          `db:"name" json:"name"`
	Price          decimal.Decimal `db:"price" json:"price"`
	DiscountPrice  decimal.Decimal `db:"discount_price" json:"discount_price"`
	StockRemaining int             `db:"stock_remaining" json:"stock_remaining"`
	WeightKg       decimal.Decimal `db:"weight_kg" json:"weight_kg"`
	ImageURL       string          `db:"image_url" json:"image_url"`
	IsActive       bool            `db:"is_active" json:"is_active"`
}

// UnitPrice is the price charged per unit
func (l CartLine) UnitPrice() decimal.Decimal {
	return EffectivePrice(l.Price, l.DiscountPrice)
}

// LineTotal is unit price times quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ShippingAddress is flattened into the order row
type ShippingAddress struct {
	Name    string `db:"customer_name" json:"name"`
	Email   string `db:"customer_email" json:"email"`
	Phone   string `db:"customer_phone" json:"phone"`
	Line1   string `db:"address_line1" json:"line1"`
	Line2   string `db:"address_line2" json:"line2"`
	City    string `db:"city" json:"city"`
	State   string `db:"state" json:"state"`
	Pincode string `db:"pincode" json:"pincode"`
	Country string `db:"country" json:"country"`
}

// Order represents a placed customer order
type Order struct {
	ID          int64  `db:"id" json:"id"`
	OrderNumber string `db:"order_number" json:"order_number"`
	UserID      string `db:"user_id" json:"user_id"`

	ShippingAddress `json:"shipping_address"`

	PaymentMethod    string `db:"payment_method" json:"payment_method"`
	PaymentStatus    string `db:"payment_status" json:"payment_status"`
	GatewayOrderID   string `db:"gateway_order_id" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string `db:"gateway_payment_id" json:"gateway_payment_id,omitempty"`

	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
	ShippingFee decimal.Decimal `db:"shipping_fee" json:"shipping_fee"`
	CODFee      decimal.Decimal `db:"cod_fee" json:"cod_fee"`
	Total       decimal.Decimal `db:"total" json:"total"`
	Status      string          `db:"status" json:"status"`

	CourierID         int64  `db:"courier_id" json:"courier_id,omitempty"`
	CourierName       string `db:"courier_name" json:"courier_name,omitempty"`
	AWBCode           string `db:"awb_code" json:"awb_code,omitempty"`
	TrackingURL       string `db:"tracking_url" json:"tracking_url,omitempty"`
	LabelURL          string `db:"label_url" json:"label_url,omitempty"`
	InvoiceURL        string `db:"invoice_url" json:"invoice_url,omitempty"`
	ShiprocketOrderID int64  `db:"shiprocket_order_id" json:"shiprocket_order_id,omitempty"`
	ShipmentID        int64  `db:"shipment_id" json:"shipment_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem is a snapshot of a product at purchase time
type OrderItem struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     int64           `db:"order_id" json:"order_id"`
	ProductID   int64           `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	Size        string          `db:"size" json:"size"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	ImageURL    string          `db:"image_url" json:"image_url"`
}

// OrderTimeline is an append-only status log entry
type OrderTimeline struct {
	ID        int64     `db:"id" json:"id"`
	OrderID   int64     `db:"order_id" json:"order_id"`
	Status    string    `db:"status" json:"status"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ShipmentUpdate carries the courier fields mirrored from the aggregator.
// Zero values leave the stored column untouched.
type ShipmentUpdate struct {
	ShiprocketOrderID int64
	ShipmentID        int64
	CourierID         int64
	CourierName       string
	AWBCode           string
	TrackingURL       string
	LabelURL          string
	InvoiceURL        string
}

// CustomisationRequest is a free-form per-product customization ticket
type CustomisationRequest struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Details   string    `db:"details" json:"details"`
	Status    string    `db:"status" json:"status"`
	AdminNote string    `db:"admin_note" json:"admin_note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WishlistItem is the server side of the client wishlist
type WishlistItem struct {
	UserID    string    `db:"user_id" json:"user_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Payment methods
const (
	PaymentMethodOnline = "online"
	PaymentMethodCOD    = "cod"
)

// Payment statuses
const (
	PaymentStatusPaid       = "paid"
	PaymentStatusCODPending = "cod_pending"
	PaymentStatusRefunded   = "refunded"
)

// Customisation statuses
const (
	CustomisationOpen       = "open"
	CustomisationInProgress = "in_progress"
	CustomisationResolved   = "resolved"
	CustomisationRejected   = "rejected"
)

// ValidCustomisationStatus reports whether s is a known ticket status
func ValidCustomisationStatus(s string) bool {
	switch s {
	case CustomisationOpen, CustomisationInProgress, CustomisationResolved, CustomisationRejected:
		return true
	}
	return false
}
