package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"kurtis-boutique/config"
	"kurtis-boutique/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	tokenCacheKey = "shiprocket:token"
	// Tokens are issued for 10 days; refresh a day early.
	tokenTTL     = 9 * 24 * time.Hour
	loginTimeout = 15 * time.Second
)

// ErrNoCourier is returned when no courier services the route
var ErrNoCourier = errors.New("no courier available")

// TokenCache shares the auth token across instances
type TokenCache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Shiprocket is a client for the Shiprocket external API
type Shiprocket struct {
	baseURL        string
	email          string
	password       string
	pickupPostcode string
	pickupLocation string
	http           *http.Client
	cache          TokenCache
	logger         *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	login       singleflight.Group
}

// NewShiprocket creates an aggregator client; cache may be nil
func NewShiprocket(cfg config.ShiprocketConfig, cache TokenCache) *Shiprocket {
	return &Shiprocket{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		email:          cfg.Email,
		password:       cfg.Password,
		pickupPostcode: cfg.PickupPostcode,
		pickupLocation: cfg.PickupLocation,
		http:           &http.Client{Timeout: 20 * time.Second},
		cache:          cache,
		logger:         util.GetLogger(),
	}
}

// Rates lists couriers servicing the route, cheapest first
func (s *Shiprocket) Rates(ctx context.Context, deliveryPostcode string, weightKg float64, cod bool) ([]Rate, error) {
	ctx, span := util.StartSpan(ctx, "Shiprocket.Rates")
	defer span.End()

	q := url.Values{}
	q.Set("pickup_postcode", s.pickupPostcode)
	q.Set("delivery_postcode", deliveryPostcode)
	q.Set("weight", strconv.FormatFloat(weightKg, 'f', 3, 64))
	if cod {
		q.Set("cod", "1")
	} else {
		q.Set("cod", "0")
	}

	var resp serviceabilityResponse
	if err := s.do(ctx, "serviceability", http.MethodGet, "/v1/external/courier/serviceability/?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	rates := make([]Rate, 0, len(resp.Data.AvailableCourierCompanies))
	for _, c := range resp.Data.AvailableCourierCompanies {
		rates = append(rates, Rate{
			CourierID:     c.CourierCompanyID,
			CourierName:   c.CourierName,
			Rate:          decimal.NewFromFloat(c.Rate).Round(2),
			EstimatedDays: c.EstimatedDeliveryDays.String(),
			ETD:           c.ETD,
		})
	}

	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].Rate.LessThan(rates[j].Rate)
	})
	return rates, nil
}

// CheapestRate picks the lowest quote for the route
func (s *Shiprocket) CheapestRate(ctx context.Context, deliveryPostcode string, weightKg float64, cod bool) (*Rate, error) {
	rates, err := s.Rates(ctx, deliveryPostcode, weightKg, cod)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("pincode %s: %w", deliveryPostcode, ErrNoCourier)
	}
	return &rates[0], nil
}

// CreateOrder registers an adhoc order with the aggregator
func (s *Shiprocket) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "Shiprocket.CreateOrder")
	defer span.End()

	if req.PickupLocation == "" {
		req.PickupLocation = s.pickupLocation
	}

	var resp CreateOrderResponse
	if err := s.do(ctx, "create_order", http.MethodPost, "/v1/external/orders/create/adhoc", req, &resp); err != nil {
		return nil, err
	}
	if resp.OrderID == 0 {
		return nil, fmt.Errorf("shiprocket create order %s: no order id in response", req.OrderID)
	}
	return &resp, nil
}

// AssignAWB assigns a courier and AWB; courierID zero lets the aggregator choose
func (s *Shiprocket) AssignAWB(ctx context.Context, shipmentID, courierID int64) (*AWBAssignment, error) {
	ctx, span := util.StartSpan(ctx, "Shiprocket.AssignAWB")
	defer span.End()

	body := map[string]int64{"shipment_id": shipmentID}
	if courierID > 0 {
		body["courier_id"] = courierID
	}

	var resp assignAWBResponse
	if err := s.do(ctx, "assign_awb", http.MethodPost, "/v1/external/courier/assign/awb", body, &resp); err != nil {
		return nil, err
	}
	if resp.AWBAssignStatus != 1 || resp.Response.Data.AWBCode == "" {
		return nil, fmt.Errorf("shiprocket awb assignment failed for shipment %d: %s", shipmentID, resp.Message)
	}
	return &resp.Response.Data, nil
}

// GeneratePickup schedules a courier pickup for a shipment
func (s *Shiprocket) GeneratePickup(ctx context.Context, shipmentID int64) (*Pickup, error) {
	ctx, span := util.StartSpan(ctx, "Shiprocket.GeneratePickup")
	defer span.End()

	var resp pickupResponse
	body := map[string][]int64{"shipment_id": {shipmentID}}
	if err := s.do(ctx, "generate_pickup", http.MethodPost, "/v1/external/courier/generate/pickup", body, &resp); err != nil {
		return nil, err
	}
	if resp.PickupStatus != 1 {
		return nil, fmt.Errorf("shiprocket pickup not scheduled for shipment %d", shipmentID)
	}
	return &resp.Response, nil
}

// GenerateLabel returns the shipping label URL
func (s *Shiprocket) GenerateLabel(ctx context.Context, shipmentID int64) (string, error) {
	ctx, span := util.StartSpan(ctx, "Shiprocket.GenerateLabel")
	defer span.End()

	var resp labelResponse
	body := map[string][]int64{"shipment_id": {shipmentID}}
	if err := s.do(ctx, "generate_label", http.MethodPost, "/v1/external/courier/generate/label", body, &resp); err != nil {
		return "", err
	}
	if resp.LabelCreated != 1 || resp.LabelURL == "" {
		return "", fmt.Errorf("shiprocket label not created for shipment %d", shipmentID)
	}
	return resp.LabelURL, nil
}

// GenerateInvoice returns the invoice URL for an aggregator order
func (s *Shiprocket) GenerateInvoice(ctx context.Context, shiprocketOrderID int64) (string, error) {
	ctx, span := util.StartSpan(ctx, "Shiprocket.GenerateInvoice")
	defer span.End()

	var resp invoiceResponse
	body := map[string][]int64{"ids": {shiprocketOrderID}}
	if err := s.do(ctx, "generate_invoice", http.MethodPost, "/v1/external/orders/print/invoice", body, &resp); err != nil {
		return "", err
	}
	if !resp.IsInvoiceCreated || resp.InvoiceURL == "" {
		return "", fmt.Errorf("shiprocket invoice not created for order %d", shiprocketOrderID)
	}
	return resp.InvoiceURL, nil
}

// TrackAWB fetches the scan history of an AWB
func (s *Shiprocket) TrackAWB(ctx context.Context, awb string) (*Tracking, error) {
	ctx, span := util.StartSpan(ctx, "Shiprocket.TrackAWB")
	defer span.End()

	var resp trackResponse
	if err := s.do(ctx, "track_awb", http.MethodGet, "/v1/external/courier/track/awb/"+url.PathEscape(awb), nil, &resp); err != nil {
		return nil, err
	}

	td := resp.TrackingData
	t := &Tracking{
		AWBCode:    awb,
		TrackURL:   td.TrackURL,
		Activities: td.ShipmentTrackActivities,
	}
	if t.Activities == nil {
		t.Activities = []TrackActivity{}
	}
	if len(td.ShipmentTrack) > 0 {
		st := td.ShipmentTrack[0]
		t.CourierName = st.CourierName
		t.CurrentStatus = st.CurrentStatus
		t.DeliveredDate = st.DeliveredDate
		t.ETD = st.ETD
	}
	return t, nil
}

// CancelOrders cancels aggregator orders
func (s *Shiprocket) CancelOrders(ctx context.Context, shiprocketOrderIDs ...int64) error {
	ctx, span := util.StartSpan(ctx, "Shiprocket.CancelOrders")
	defer span.End()

	body := map[string][]int64{"ids": shiprocketOrderIDs}
	return s.do(ctx, "cancel_orders", http.MethodPost, "/v1/external/orders/cancel", body, nil)
}

type statusError struct {
	op     string
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("shiprocket %s returned status %d: %s", e.op, e.status, e.body)
}

// do performs an authenticated call, refreshing the token once on 401
func (s *Shiprocket) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	start := time.Now()
	defer func() {
		util.ExternalCallLatency.WithLabelValues("shiprocket", op).Observe(time.Since(start).Seconds())
	}()

	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		token, err := s.authToken(ctx)
		if err != nil {
			return err
		}

		err = s.send(ctx, op, method, path, token, payload, out)
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusUnauthorized && attempt == 0 {
			s.logger.Warn("Shiprocket token rejected, refreshing", zap.String("op", op))
			s.invalidateToken(ctx)
			continue
		}
		return err
	}
}

func (s *Shiprocket) send(ctx context.Context, op, method, path, token string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("shiprocket %s failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read shiprocket response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{op: op, status: resp.StatusCode, body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode shiprocket %s response: %w", op, err)
	}
	return nil
}

func (s *Shiprocket) authToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.token != "" && time.Now().Before(s.tokenExpiry) {
		tok := s.token
		s.mu.Unlock()
		return tok, nil
	}
	s.mu.Unlock()

	// One login serves every waiting caller and runs detached from whichever
	// caller started it
	ch := s.login.DoChan("login", func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loginTimeout)
		defer cancel()

		if s.cache != nil {
			if tok, err := s.cache.GetString(lctx, tokenCacheKey); err == nil && tok != "" {
				s.storeToken(tok)
				return tok, nil
			}
		}

		tok, err := s.fetchToken(lctx)
		if err != nil {
			return "", err
		}
		s.storeToken(tok)

		if s.cache != nil {
			if err := s.cache.SetString(lctx, tokenCacheKey, tok, tokenTTL); err != nil {
				s.logger.Warn("Failed to cache shiprocket token", zap.Error(err))
			}
		}
		return tok, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (s *Shiprocket) fetchToken(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": s.email, "password": s.password})
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := s.send(ctx, "login", http.MethodPost, "/v1/external/auth/login", "", payload, &resp); err != nil {
		return "", fmt.Errorf("shiprocket auth failed: %w", err)
	}
	if resp.Token == "" {
		return "", errors.New("shiprocket auth returned empty token")
	}

	s.logger.Info("Shiprocket token refreshed")
	return resp.Token, nil
}

func (s *Shiprocket) storeToken(tok string) {
	s.mu.Lock()
	s.token = tok
	s.tokenExpiry = time.Now().Add(tokenTTL)
	s.mu.Unlock()
}

func (s *Shiprocket) invalidateToken(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Delete(ctx, tokenCacheKey); err != nil {
			s.logger.Warn("Failed to drop cached shiprocket token", zap.Error(err))
		}
	}
}
