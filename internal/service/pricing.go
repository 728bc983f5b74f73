package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"kurtis-boutique/config"
	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/shipping"
	"kurtis-boutique/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phonePattern   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	nonDigits      = regexp.MustCompile(`[^0-9]`)
)

// Quote is the priced checkout kept between initiation and verification.
// Items is the priced cart as it was when the gateway order was opened.
type Quote struct {
	OrderNumber    string                 `json:"order_number"`
	GatewayOrderID string                 `json:"gateway_order_id,omitempty"`
	UserID         string                 `json:"user_id"`
	Address        models.ShippingAddress `json:"address"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	ShippingFee    decimal.Decimal        `json:"shipping_fee"`
	CODFee         decimal.Decimal        `json:"cod_fee"`
	Total          decimal.Decimal        `json:"total"`
	CourierID      int64                  `json:"courier_id,omitempty"`
	CourierName    string                 `json:"courier_name,omitempty"`
	Items          []models.OrderItem     `json:"items"`
}

// pricer computes subtotals and shipping for cart lines
type pricer struct {
	shipper       Shipper
	cache         Cache
	business      config.BusinessConfig
	defaultWeight float64
	logger        *zap.Logger
}

// summarize totals the cart; checkStock rejects lines above remaining stock
func summarize(lines []models.CartLine, checkStock bool) (subtotal decimal.Decimal, weightKg float64, err error) {
	if len(lines) == 0 {
		return decimal.Zero, 0, ErrEmptyCart
	}

	subtotal = decimal.Zero
	weight := decimal.Zero
	for _, l := range lines {
		if checkStock {
			if !l.IsActive {
				return decimal.Zero, 0, fmt.Errorf("%w: %s is no longer available", ErrOutOfStock, l.Name)
			}
			if l.Quantity > l.StockRemaining {
				return decimal.Zero, 0, fmt.Errorf("%w: only %d of %s left", ErrOutOfStock, l.StockRemaining, l.Name)
			}
		}
		subtotal = subtotal.Add(l.LineTotal())
		weight = weight.Add(l.WeightKg.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	w, _ := weight.Float64()
	return subtotal, w, nil
}

// shippingFor resolves the shipping fee: free above the threshold, else the
// cheapest courier, else the flat rate
func (p *pricer) shippingFor(ctx context.Context, pincode string, subtotal decimal.Decimal, weightKg float64, cod bool) (decimal.Decimal, *shipping.Rate) {
	threshold := p.business.FreeShippingThreshold
	if threshold.IsPositive() && subtotal.GreaterThanOrEqual(threshold) {
		return decimal.Zero, nil
	}

	if weightKg <= 0 {
		weightKg = p.defaultWeight
	}
	weightKg = weightBand(weightKg)

	key := fmt.Sprintf("rate:%s:%.1f:%t", pincode, weightKg, cod)
	var cached shipping.Rate
	if p.cache != nil {
		if err := p.cache.GetJSON(ctx, key, &cached); err == nil {
			util.ShippingRateLookupsTotal.WithLabelValues("cached").Inc()
			return cached.Rate, &cached
		}
	}

	rate, err := p.shipper.CheapestRate(ctx, pincode, weightKg, cod)
	if err != nil {
		util.ShippingRateLookupsTotal.WithLabelValues("fallback").Inc()
		p.logger.Warn("Courier rate lookup failed, using flat rate",
			zap.String("pincode", pincode),
			zap.String("flat_rate", p.business.FlatShippingRate.String()),
			zap.Error(err))
		return p.business.FlatShippingRate, nil
	}

	util.ShippingRateLookupsTotal.WithLabelValues("live").Inc()
	if p.cache != nil {
		if err := p.cache.SetJSON(ctx, key, rate, p.business.RateCacheTTL); err != nil {
			p.logger.Warn("Failed to cache courier rate", zap.Error(err))
		}
	}
	return rate.Rate, rate
}

// quote prices a cart for delivery to addr
func (p *pricer) quote(ctx context.Context, userID string, lines []models.CartLine, addr models.ShippingAddress, cod, checkStock bool) (*Quote, error) {
	subtotal, weight, err := summarize(lines, checkStock)
	if err != nil {
		return nil, err
	}

	fee, rate := p.shippingFor(ctx, addr.Pincode, subtotal, weight, cod)

	q := &Quote{
		UserID:      userID,
		Address:     addr,
		Subtotal:    subtotal,
		ShippingFee: fee,
		CODFee:      decimal.Zero,
		Items:       orderItemsFromLines(lines),
	}
	if cod {
		q.CODFee = p.business.CODFee
	}
	if rate != nil {
		q.CourierID = rate.CourierID
		q.CourierName = rate.CourierName
	}
	q.Total = q.Subtotal.Add(q.ShippingFee).Add(q.CODFee)
	return q, nil
}

// weightBand rounds up to the next half kilogram, the aggregator's slab size
func weightBand(kg float64) float64 {
	return math.Ceil(kg*2) / 2
}

// NormalizeAddress trims the address and validates the fields couriers need
func NormalizeAddress(a models.ShippingAddress) (models.ShippingAddress, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.TrimSpace(strings.ToLower(a.Email))
	a.Line1 = strings.TrimSpace(a.Line1)
	a.Line2 = strings.TrimSpace(a.Line2)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Pincode = strings.TrimSpace(a.Pincode)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = "India"
	}

	phone := nonDigits.ReplaceAllString(a.Phone, "")
	if len(phone) == 12 && strings.HasPrefix(phone, "91") {
		phone = phone[2:]
	}
	if len(phone) == 11 && strings.HasPrefix(phone, "0") {
		phone = phone[1:]
	}
	a.Phone = phone

	var missing []string
	if a.Name == "" {
		missing = append(missing, "name")
	}
	if a.Line1 == "" {
		missing = append(missing, "line1")
	}
	if a.City == "" {
		missing = append(missing, "city")
	}
	if a.State == "" {
		missing = append(missing, "state")
	}
	if len(missing) > 0 {
		return a, fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if !phonePattern.MatchString(a.Phone) {
		return a, fmt.Errorf("%w: phone must be a 10 digit mobile number", ErrInvalidInput)
	}
	if !pincodePattern.MatchString(a.Pincode) {
		return a, fmt.Errorf("%w: pincode must be 6 digits", ErrInvalidInput)
	}
	return a, nil
}

// NewOrderNumber returns a human-facing order reference, also used as the gateway receipt
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("KB%s-%s", now.Format("060102"), suffix)
}

// orderItemsFromLines snapshots cart lines into order items
func orderItemsFromLines(lines []models.CartLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Size:        l.Size,
			UnitPrice:   l.UnitPrice(),
			Quantity:    l.Quantity,
			ImageURL:    l.ImageURL,
		})
	}
	return items
}

// unitCount is the number of pieces in an order
func unitCount(items []models.OrderItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
