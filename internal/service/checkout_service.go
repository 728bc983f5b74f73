package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kurtis-boutique/config"
	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/payment"
	"kurtis-boutique/internal/redisclient"
	"kurtis-boutique/internal/store"
	"kurtis-boutique/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	paymentLockTTL    = 30 * time.Second
	codIdempotencyTTL = 24 * time.Hour
)

// CheckoutService turns carts into orders, online or cash on delivery
type CheckoutService struct {
	store     OrderStore
	cache     Cache
	gateway   PaymentGateway
	publisher EventPublisher
	shipments ShipmentRegistrar
	pricer    *pricer
	business  config.BusinessConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	store OrderStore,
	cache Cache,
	gateway PaymentGateway,
	shipper Shipper,
	publisher EventPublisher,
	shipments ShipmentRegistrar,
	business config.BusinessConfig,
	defaultWeight float64,
) *CheckoutService {
	logger := util.GetLogger()
	return &CheckoutService{
		store:     store,
		cache:     cache,
		gateway:   gateway,
		publisher: publisher,
		shipments: shipments,
		pricer: &pricer{
			shipper:       shipper,
			cache:         cache,
			business:      business,
			defaultWeight: defaultWeight,
			logger:        logger,
		},
		business: business,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckoutSession is what the browser needs to open the payment widget
type CheckoutSession struct {
	KeyID          string          `json:"key_id"`
	GatewayOrderID string          `json:"gateway_order_id"`
	AmountPaise    int64           `json:"amount"`
	Currency       string          `json:"currency"`
	OrderNumber    string          `json:"order_number"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	Total          decimal.Decimal `json:"total"`
	CourierName    string          `json:"courier_name,omitempty"`
}

// VerifyRequest carries the gateway callback fields
type VerifyRequest struct {
	GatewayOrderID string                  `json:"razorpay_order_id" binding:"required"`
	PaymentID      string                  `json:"razorpay_payment_id" binding:"required"`
	Signature      string                  `json:"razorpay_signature" binding:"required"`
	Address        *models.ShippingAddress `json:"address"`
}

func quoteKey(gatewayOrderID string) string {
	return "checkout:quote:" + gatewayOrderID
}

func refundedKey(paymentID string) string {
	return "checkout:refunded:" + paymentID
}

// Initiate prices the cart and opens a gateway order for the total
func (s *CheckoutService) Initiate(ctx context.Context, userID string, addr models.ShippingAddress) (*CheckoutSession, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Initiate")
	defer span.End()

	addr, err := NormalizeAddress(addr)
	if err != nil {
		return nil, err
	}

	lines, err := s.store.ListCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	quote, err := s.pricer.quote(ctx, userID, lines, addr, false, true)
	if err != nil {
		return nil, err
	}
	quote.OrderNumber = NewOrderNumber(s.now())

	gwOrder, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		AmountPaise: payment.ToPaise(quote.Total),
		Currency:    s.gateway.Currency(),
		Receipt:     quote.OrderNumber,
		Notes:       map[string]string{"user_id": userID},
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("gateway_order").Inc()
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}
	quote.GatewayOrderID = gwOrder.ID

	if err := s.cache.SetJSON(ctx, quoteKey(gwOrder.ID), quote, s.business.QuoteTTL); err != nil {
		// Verification reprices from the supplied address when the quote is gone
		s.logger.Warn("Failed to cache checkout quote",
			zap.String("gateway_order_id", gwOrder.ID),
			zap.Error(err))
	}

	util.CheckoutsInitiatedTotal.Inc()
	s.logger.Info("Checkout initiated",
		zap.String("user_id", userID),
		zap.String("order_number", quote.OrderNumber),
		zap.String("gateway_order_id", gwOrder.ID),
		zap.String("total", quote.Total.String()))

	return &CheckoutSession{
		KeyID:          s.gateway.KeyID(),
		GatewayOrderID: gwOrder.ID,
		AmountPaise:    gwOrder.Amount,
		Currency:       gwOrder.Currency,
		OrderNumber:    quote.OrderNumber,
		Subtotal:       quote.Subtotal,
		ShippingFee:    quote.ShippingFee,
		Total:          quote.Total,
		CourierName:    quote.CourierName,
	}, nil
}

// VerifyPayment checks the gateway signature and persists the paid order.
// The order is only placed when its total equals what the gateway captured;
// otherwise the payment is refunded in full. Repeated calls for the same
// payment return the existing order.
func (s *CheckoutService) VerifyPayment(ctx context.Context, userID string, req VerifyRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.VerifyPayment")
	defer span.End()

	if !s.gateway.VerifySignature(req.GatewayOrderID, req.PaymentID, req.Signature) {
		util.PaymentsVerifiedTotal.WithLabelValues("invalid").Inc()
		s.logger.Warn("Payment signature mismatch",
			zap.String("user_id", userID),
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.String("payment_id", req.PaymentID))
		return nil, util.SpanError(span, ErrPaymentInvalid)
	}
	util.PaymentsVerifiedTotal.WithLabelValues("valid").Inc()

	lockKey := "payment:" + req.PaymentID
	acquired, err := s.cache.AcquireLock(ctx, lockKey, paymentLockTTL)
	switch {
	case err != nil:
		// The unique index on gateway_payment_id still rejects duplicates
		s.logger.Warn("Payment lock unavailable, continuing", zap.Error(err))
	case !acquired:
		return nil, fmt.Errorf("%w: payment %s is already being processed", ErrConflict, req.PaymentID)
	default:
		defer s.cache.ReleaseLock(context.Background(), lockKey)
	}

	if existing, err := s.store.GetOrderByPaymentID(ctx, req.PaymentID); err == nil {
		s.logger.Info("Payment already recorded", zap.String("payment_id", req.PaymentID), zap.Int64("order_id", existing.ID))
		return existing, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}

	var prior payment.Refund
	if err := s.cache.GetJSON(ctx, refundedKey(req.PaymentID), &prior); err == nil {
		return nil, fmt.Errorf("%w: payment %s was already refunded", ErrConflict, req.PaymentID)
	}

	gwOrder, err := s.gateway.FetchOrder(ctx, req.GatewayOrderID)
	if err != nil {
		return nil, util.SpanError(span, fmt.Errorf("failed to fetch payment order: %w", err))
	}

	var quoted Quote
	haveQuote := true
	if err := s.cache.GetJSON(ctx, quoteKey(req.GatewayOrderID), &quoted); err != nil {
		if !errors.Is(err, redisclient.ErrCacheMiss) {
			s.logger.Warn("Failed to load checkout quote", zap.Error(err))
		}
		haveQuote = false
	}
	owner := gwOrder.Notes["user_id"]
	if haveQuote {
		owner = quoted.UserID
	}
	if owner != "" && owner != userID {
		return nil, fmt.Errorf("%w: checkout belongs to another user", ErrForbidden)
	}

	var (
		order *models.Order
		items []models.OrderItem
	)
	if haveQuote && len(quoted.Items) > 0 {
		order, items = orderFromQuote(&quoted)
		s.logCartDrift(ctx, userID, &quoted)
	} else {
		order, items, err = s.orderWithoutQuote(ctx, userID, req.Address)
		if errors.Is(err, ErrEmptyCart) {
			return nil, util.SpanError(span, s.refusePayment(ctx, req, gwOrder, "empty_cart"))
		}
		if err != nil {
			return nil, err
		}
	}

	if due := payment.ToPaise(order.Total); due != gwOrder.Captured() {
		s.logger.Warn("Order total does not match captured amount",
			zap.String("order_number", order.OrderNumber),
			zap.String("order_total", order.Total.String()),
			zap.String("captured", payment.FromPaise(gwOrder.Captured()).String()))
		return nil, util.SpanError(span, s.refusePayment(ctx, req, gwOrder, "amount_mismatch"))
	}

	order.UserID = userID
	order.GatewayOrderID = req.GatewayOrderID
	order.GatewayPaymentID = req.PaymentID
	order.PaymentMethod = models.PaymentMethodOnline
	order.PaymentStatus = models.PaymentStatusPaid
	order.Status = models.OrderStatusConfirmed

	if err := s.store.PlaceOrder(ctx, order, items, "Payment received"); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			if existing, lookupErr := s.store.GetOrderByPaymentID(ctx, req.PaymentID); lookupErr == nil {
				return existing, nil
			}
		}
		util.OrdersFailedTotal.WithLabelValues("persist").Inc()
		s.logger.Error("Failed to persist paid order",
			zap.String("payment_id", req.PaymentID),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return nil, util.SpanError(span, fmt.Errorf("failed to save order: %w", err))
	}

	if haveQuote {
		if err := s.cache.Delete(ctx, quoteKey(req.GatewayOrderID)); err != nil {
			s.logger.Warn("Failed to drop checkout quote", zap.Error(err))
		}
	}

	s.afterPlaced(ctx, order, items)
	return order, nil
}

// orderFromQuote builds the order from the items and prices fixed at initiation
func orderFromQuote(q *Quote) (*models.Order, []models.OrderItem) {
	return &models.Order{
		OrderNumber:     q.OrderNumber,
		ShippingAddress: q.Address,
		Subtotal:        q.Subtotal,
		ShippingFee:     q.ShippingFee,
		CODFee:          decimal.Zero,
		Total:           q.Total,
		CourierID:       q.CourierID,
		CourierName:     q.CourierName,
	}, append([]models.OrderItem(nil), q.Items...)
}

// logCartDrift re-reads the cart and reports when it no longer matches the
// quoted items. The order keeps what was quoted and paid for.
func (s *CheckoutService) logCartDrift(ctx context.Context, userID string, q *Quote) {
	lines, err := s.store.ListCartLines(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to re-read cart", zap.String("user_id", userID), zap.Error(err))
		return
	}
	current := decimal.Zero
	if len(lines) > 0 {
		current, _, _ = summarize(lines, false)
	}
	if !current.Equal(q.Subtotal) {
		s.logger.Warn("Cart changed after checkout was initiated",
			zap.String("order_number", q.OrderNumber),
			zap.String("quoted_subtotal", q.Subtotal.String()),
			zap.String("cart_subtotal", current.String()))
	}
}

// orderWithoutQuote reprices the current cart once the quote has expired
func (s *CheckoutService) orderWithoutQuote(ctx context.Context, userID string, addr *models.ShippingAddress) (*models.Order, []models.OrderItem, error) {
	if addr == nil {
		return nil, nil, fmt.Errorf("%w: checkout expired, address required", ErrInvalidInput)
	}
	normalized, err := NormalizeAddress(*addr)
	if err != nil {
		return nil, nil, err
	}

	lines, err := s.store.ListCartLines(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cart: %w", err)
	}

	q, err := s.pricer.quote(ctx, userID, lines, normalized, false, false)
	if err != nil {
		return nil, nil, err
	}
	return &models.Order{
		OrderNumber:     NewOrderNumber(s.now()),
		ShippingAddress: q.Address,
		Subtotal:        q.Subtotal,
		ShippingFee:     q.ShippingFee,
		CODFee:          decimal.Zero,
		Total:           q.Total,
		CourierID:       q.CourierID,
		CourierName:     q.CourierName,
	}, q.Items, nil
}

// refusePayment refunds a verified payment that cannot become an order.
// Nothing is persisted, so the payment is never marked paid.
func (s *CheckoutService) refusePayment(ctx context.Context, req VerifyRequest, gwOrder *payment.Order, reason string) error {
	util.OrdersFailedTotal.WithLabelValues(reason).Inc()
	s.logger.Error("Refunding payment that cannot be fulfilled",
		zap.String("reason", reason),
		zap.String("gateway_order_id", req.GatewayOrderID),
		zap.String("payment_id", req.PaymentID),
		zap.String("amount", payment.FromPaise(gwOrder.Captured()).String()))

	refund, err := s.gateway.Refund(ctx, req.PaymentID, 0)
	if err != nil {
		s.logger.Error("Refund failed", zap.String("payment_id", req.PaymentID), zap.Error(err))
		return fmt.Errorf("%w: payment %s could not be matched to an order and the refund failed", ErrConflict, req.PaymentID)
	}
	s.logger.Info("Payment refunded",
		zap.String("payment_id", req.PaymentID),
		zap.String("refund_id", refund.ID))
	if err := s.cache.SetJSON(ctx, refundedKey(req.PaymentID), refund, codIdempotencyTTL); err != nil {
		s.logger.Warn("Failed to record refund", zap.Error(err))
	}
	return fmt.Errorf("%w: payment %s did not match the order and was refunded", ErrConflict, req.PaymentID)
}

// CreateCODOrder places a cash-on-delivery order directly. A repeated
// idempotency key returns the order it created the first time.
func (s *CheckoutService) CreateCODOrder(ctx context.Context, userID, idempotencyKey string, addr models.ShippingAddress) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.CreateCODOrder")
	defer span.End()

	addr, err := NormalizeAddress(addr)
	if err != nil {
		return nil, err
	}

	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	idemKey := fmt.Sprintf("cod:%s:%s", userID, idempotencyKey)
	if existing, ok := s.lookupIdempotent(ctx, idemKey); ok {
		return existing, nil
	}

	lockKey := "cod:" + userID
	acquired, err := s.cache.AcquireLock(ctx, lockKey, paymentLockTTL)
	switch {
	case err != nil:
		s.logger.Warn("COD lock unavailable, continuing", zap.Error(err))
	case !acquired:
		return nil, fmt.Errorf("%w: another order is being placed", ErrConflict)
	default:
		defer s.cache.ReleaseLock(context.Background(), lockKey)
	}

	lines, err := s.store.ListCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	q, err := s.pricer.quote(ctx, userID, lines, addr, true, true)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:     NewOrderNumber(s.now()),
		UserID:          userID,
		ShippingAddress: q.Address,
		PaymentMethod:   models.PaymentMethodCOD,
		PaymentStatus:   models.PaymentStatusCODPending,
		Subtotal:        q.Subtotal,
		ShippingFee:     q.ShippingFee,
		CODFee:          q.CODFee,
		Total:           q.Total,
		Status:          models.OrderStatusPending,
		CourierID:       q.CourierID,
		CourierName:     q.CourierName,
	}

	items := q.Items
	if err := s.store.PlaceOrder(ctx, order, items, "Cash on delivery order placed"); err != nil {
		util.OrdersFailedTotal.WithLabelValues("persist").Inc()
		s.logger.Error("Failed to persist COD order",
			zap.String("user_id", userID),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return nil, util.SpanError(span, fmt.Errorf("failed to save order: %w", err))
	}

	if err := s.cache.SetIdempotencyKey(ctx, idemKey, order.ID, codIdempotencyTTL); err != nil {
		s.logger.Warn("Failed to store idempotency key", zap.Error(err))
	}

	s.afterPlaced(ctx, order, items)
	return order, nil
}

func (s *CheckoutService) lookupIdempotent(ctx context.Context, key string) (*models.Order, bool) {
	val, err := s.cache.GetIdempotencyKey(ctx, key)
	if err != nil {
		return nil, false
	}
	var id int64
	if _, err := fmt.Sscan(val, &id); err != nil {
		return nil, false
	}
	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, false
	}
	return order, true
}

// afterPlaced records metrics and hands the order to the shipment pipeline.
// Failures here are logged and never undo the order.
func (s *CheckoutService) afterPlaced(ctx context.Context, order *models.Order, items []models.OrderItem) {
	util.OrdersPlacedTotal.WithLabelValues(order.PaymentMethod).Inc()
	util.StockDecrementsTotal.Add(float64(unitCount(items)))

	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_method", order.PaymentMethod),
		zap.String("total", order.Total.String()))

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.NewString(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: s.now(),
		},
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total.String(),
	}

	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish order placed, registering shipment directly",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		if s.shipments == nil {
			return
		}
		go func(orderID int64) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := s.shipments.RegisterShipment(ctx, orderID); err != nil {
				s.logger.Error("Direct shipment registration failed",
					zap.Int64("order_id", orderID),
					zap.Error(err))
			}
		}(order.ID)
	}
}
