package shipping

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Rate is one courier's quote for a parcel
type Rate struct {
	CourierID     int64           `json:"courier_id"`
	CourierName   string          `json:"courier_name"`
	Rate          decimal.Decimal `json:"rate"`
	EstimatedDays string          `json:"estimated_days,omitempty"`
	ETD           string          `json:"etd,omitempty"`
}

type serviceabilityResponse struct {
	Status int `json:"status"`
	Data   struct {
		AvailableCourierCompanies []struct {
			CourierCompanyID      int64       `json:"courier_company_id"`
			CourierName           string      `json:"courier_name"`
			Rate                  float64     `json:"rate"`
			EstimatedDeliveryDays json.Number `json:"estimated_delivery_days"`
			ETD                   string      `json:"etd"`
		} `json:"available_courier_companies"`
	} `json:"data"`
}

// OrderItem is one line of an aggregator order
type OrderItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
	Discount     float64 `json:"discount"`
	Tax          float64 `json:"tax"`
	HSN          string  `json:"hsn,omitempty"`
}

// CreateOrderRequest is the adhoc order payload
type CreateOrderRequest struct {
	OrderID             string      `json:"order_id"`
	OrderDate           string      `json:"order_date"`
	PickupLocation      string      `json:"pickup_location"`
	BillingCustomerName string      `json:"billing_customer_name"`
	BillingLastName     string      `json:"billing_last_name"`
	BillingAddress      string      `json:"billing_address"`
	BillingAddress2     string      `json:"billing_address_2"`
	BillingCity         string      `json:"billing_city"`
	BillingPincode      string      `json:"billing_pincode"`
	BillingState        string      `json:"billing_state"`
	BillingCountry      string      `json:"billing_country"`
	BillingEmail        string      `json:"billing_email"`
	BillingPhone        string      `json:"billing_phone"`
	ShippingIsBilling   bool        `json:"shipping_is_billing"`
	OrderItems          []OrderItem `json:"order_items"`
	PaymentMethod       string      `json:"payment_method"`
	ShippingCharges     float64     `json:"shipping_charges"`
	SubTotal            float64     `json:"sub_total"`
	Length              float64     `json:"length"`
	Breadth             float64     `json:"breadth"`
	Height              float64     `json:"height"`
	Weight              float64     `json:"weight"`
}

// CreateOrderResponse is the aggregator's acknowledgement
type CreateOrderResponse struct {
	OrderID     int64  `json:"order_id"`
	ShipmentID  int64  `json:"shipment_id"`
	Status      string `json:"status"`
	StatusCode  int    `json:"status_code"`
	AWBCode     string `json:"awb_code"`
	CourierName string `json:"courier_name"`
}

// AWBAssignment is the courier/AWB pair assigned to a shipment
type AWBAssignment struct {
	AWBCode     string `json:"awb_code"`
	CourierID   int64  `json:"courier_company_id"`
	CourierName string `json:"courier_name"`
	ShipmentID  int64  `json:"shipment_id"`
}

type assignAWBResponse struct {
	AWBAssignStatus int `json:"awb_assign_status"`
	Response        struct {
		Data AWBAssignment `json:"data"`
	} `json:"response"`
	Message string `json:"message"`
}

// Pickup is a scheduled courier pickup
type Pickup struct {
	ScheduledDate string `json:"pickup_scheduled_date"`
	TokenNumber   string `json:"pickup_token_number"`
	Status        int    `json:"status"`
}

type pickupResponse struct {
	PickupStatus int    `json:"pickup_status"`
	Response     Pickup `json:"response"`
}

type labelResponse struct {
	LabelCreated int    `json:"label_created"`
	LabelURL     string `json:"label_url"`
}

type invoiceResponse struct {
	IsInvoiceCreated bool   `json:"is_invoice_created"`
	InvoiceURL       string `json:"invoice_url"`
}

// TrackActivity is one scan event on a shipment
type TrackActivity struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Activity string `json:"activity"`
	Location string `json:"location"`
}

// Tracking is the current state of an AWB
type Tracking struct {
	AWBCode       string          `json:"awb_code"`
	CourierName   string          `json:"courier_name"`
	CurrentStatus string          `json:"current_status"`
	ETD           string          `json:"etd,omitempty"`
	DeliveredDate string          `json:"delivered_date,omitempty"`
	TrackURL      string          `json:"track_url,omitempty"`
	Activities    []TrackActivity `json:"activities"`
}

type trackResponse struct {
	TrackingData struct {
		TrackStatus   int `json:"track_status"`
		ShipmentTrack []struct {
			AWBCode       string `json:"awb_code"`
			CourierName   string `json:"courier_name"`
			CurrentStatus string `json:"current_status"`
			DeliveredDate string `json:"delivered_date"`
			ETD           string `json:"etd"`
		} `json:"shipment_track"`
		ShipmentTrackActivities []TrackActivity `json:"shipment_track_activities"`
		TrackURL                string          `json:"track_url"`
	} `json:"tracking_data"`
}
