package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kurtis-boutique/config"
	"kurtis-boutique/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// OrderRequest is the gateway order-intent payload
type OrderRequest struct {
	AmountPaise int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Receipt     string            `json:"receipt"`
	Notes       map[string]string `json:"notes,omitempty"`
}

// Order is the gateway's order intent
type Order struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     string            `json:"status"`
	Notes      map[string]string `json:"notes,omitempty"`
}

// Captured is what the customer paid against the order, or the order amount
// while the payment is only authorized
func (o *Order) Captured() int64 {
	if o.AmountPaid > 0 {
		return o.AmountPaid
	}
	return o.Amount
}

// Refund is the gateway's refund record
type Refund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// Razorpay talks to the Razorpay orders and refunds API
type Razorpay struct {
	baseURL   string
	keyID     string
	keySecret string
	currency  string
	http      *http.Client
	logger    *zap.Logger
}

// NewRazorpay creates a gateway client
func NewRazorpay(cfg config.RazorpayConfig) *Razorpay {
	return &Razorpay{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		currency:  cfg.Currency,
		http:      &http.Client{Timeout: 15 * time.Second},
		logger:    util.GetLogger(),
	}
}

// KeyID is the public key handed to the browser checkout
func (r *Razorpay) KeyID() string {
	return r.keyID
}

// Currency is the settlement currency
func (r *Razorpay) Currency() string {
	return r.currency
}

// CreateOrder registers an order intent with the gateway
func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	ctx, span := util.StartSpan(ctx, "Razorpay.CreateOrder")
	defer span.End()

	if req.Currency == "" {
		req.Currency = r.currency
	}

	var order Order
	if err := r.do(ctx, "create_order", http.MethodPost, "/v1/orders", req, &order); err != nil {
		return nil, err
	}

	r.logger.Info("Gateway order created",
		zap.String("gateway_order_id", order.ID),
		zap.String("receipt", order.Receipt),
		zap.Int64("amount", order.Amount))
	return &order, nil
}

// FetchOrder reads an order intent back from the gateway
func (r *Razorpay) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	ctx, span := util.StartSpan(ctx, "Razorpay.FetchOrder")
	defer span.End()

	var order Order
	if err := r.do(ctx, "fetch_order", http.MethodGet, "/v1/orders/"+orderID, nil, &order); err != nil {
		return nil, util.SpanError(span, err)
	}
	return &order, nil
}

// Refund refunds a captured payment in full when amountPaise is zero
func (r *Razorpay) Refund(ctx context.Context, paymentID string, amountPaise int64) (*Refund, error) {
	ctx, span := util.StartSpan(ctx, "Razorpay.Refund")
	defer span.End()

	body := map[string]int64{}
	if amountPaise > 0 {
		body["amount"] = amountPaise
	}

	var refund Refund
	if err := r.do(ctx, "refund", http.MethodPost, "/v1/payments/"+paymentID+"/refund", body, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

// VerifySignature checks the checkout signature: hex HMAC-SHA256 of "order|payment"
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := Sign(r.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the checkout signature for an order/payment pair
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// ToPaise converts a rupee amount to the gateway's minor unit
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromPaise converts a minor-unit amount back to rupees
func FromPaise(paise int64) decimal.Decimal {
	return decimal.New(paise, -2)
}

func (r *Razorpay) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	start := time.Now()
	defer func() {
		util.ExternalCallLatency.WithLabelValues("razorpay", op).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(r.keyID, r.keySecret)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("razorpay %s failed: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read razorpay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("razorpay %s returned status %d: %s", op, resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode razorpay response: %w", err)
	}
	return nil
}
