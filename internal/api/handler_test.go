package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kurtis-boutique/internal/auth"
	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokens map[string]*auth.Principal

func (t tokens) Verify(ctx context.Context, raw string) (*auth.Principal, error) {
	if p, ok := t[raw]; ok {
		return p, nil
	}
	return nil, errors.New("bad token")
}

var testTokens = tokens{
	"customer": {UserID: "u-1", Email: "asha@example.com", Role: "authenticated"},
	"admin":    {UserID: "u-9", Email: "owner@kurtis.example", Role: auth.RoleAdmin},
}

// stubs embed the interface and override only what a test needs

type stubCatalog struct {
	CatalogService
	query service.ProductQuery
}

func (s *stubCatalog) ListProducts(ctx context.Context, q service.ProductQuery) ([]models.Product, error) {
	s.query = q
	return []models.Product{{ID: 1, Name: "Anarkali Kurti"}}, nil
}

func (s *stubCatalog) GetProduct(ctx context.Context, id int64, includeInactive bool) (*models.Product, error) {
	return nil, fmt.Errorf("product %d: %w", id, service.ErrNotFound)
}

type stubCheckout struct {
	CheckoutService
	verifyErr error
	idemKey   string
}

func (s *stubCheckout) VerifyPayment(ctx context.Context, userID string, req service.VerifyRequest) (*models.Order, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return &models.Order{ID: 5, UserID: userID, GatewayOrderID: req.GatewayOrderID, Total: decimal.NewFromInt(1299)}, nil
}

func (s *stubCheckout) CreateCODOrder(ctx context.Context, userID, key string, addr models.ShippingAddress) (*models.Order, error) {
	s.idemKey = key
	return &models.Order{ID: 6, UserID: userID, ShippingAddress: addr}, nil
}

type stubAdmin struct {
	AdminService
	err error
}

func (s *stubAdmin) ListOrders(ctx context.Context, q service.OrderQuery) ([]models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Order{{ID: 1, Status: q.Status}}, nil
}

func (s *stubAdmin) UpdateStatus(ctx context.Context, orderID int64, to, note string) (*models.Order, error) {
	return nil, service.ErrInvalidTransition
}

type stubCart struct {
	CartService
}

func (s *stubCart) UpdateQuantity(ctx context.Context, userID string, itemID int64, quantity int) (*service.Cart, error) {
	if quantity > 3 {
		return nil, service.ErrOutOfStock
	}
	return &service.Cart{ItemCount: quantity}, nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	router   *gin.Engine
	catalog  *stubCatalog
	checkout *stubCheckout
	admin    *stubAdmin
}

func newTestServer(deps map[string]Pinger) *testServer {
	ts := &testServer{
		router:   gin.New(),
		catalog:  &stubCatalog{},
		checkout: &stubCheckout{},
		admin:    &stubAdmin{},
	}
	h := NewHandler(Services{
		Catalog:  ts.catalog,
		Cart:     &stubCart{},
		Checkout: ts.checkout,
		Admin:    ts.admin,
	}, testTokens, nil, deps)
	h.SetupRoutes(ts.router)
	return ts
}

func (ts *testServer) do(method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestHealthAndReadiness(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	ts := newTestServer(map[string]Pinger{"postgres": ok})
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/ready", "", "").Code)

	ts = newTestServer(map[string]Pinger{"postgres": ok, "redis": down})
	w := ts.do(http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"unavailable"`)
}

func TestPublicCatalog(t *testing.T) {
	ts := newTestServer(nil)

	w := ts.do(http.MethodGet, "/api/v1/products?category=kurtis&page=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Anarkali Kurti")
	assert.Equal(t, service.ProductQuery{Category: "kurtis", Page: 2}, ts.catalog.query)

	w = ts.do(http.MethodGet, "/api/v1/products/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/products/42", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Product not found","details":"product 42: not found"}`, w.Body.String())
}

func TestUserRoutesRequireToken(t *testing.T) {
	ts := newTestServer(nil)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/v1/cart", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodPost, "/api/v1/checkout", "nope", "{}").Code)
}

func TestUpdateCartItem(t *testing.T) {
	ts := newTestServer(nil)

	w := ts.do(http.MethodPatch, "/api/v1/cart/items/3", "customer", `{"quantity":2}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodPatch, "/api/v1/cart/items/3", "customer", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPatch, "/api/v1/cart/items/3", "customer", `{"quantity":9}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVerifyPayment(t *testing.T) {
	ts := newTestServer(nil)
	body := `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"sig"}`

	w := ts.do(http.MethodPost, "/api/v1/checkout/verify", "customer", `{"razorpay_order_id":"order_1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/checkout/verify", "customer", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)

	ts.checkout.verifyErr = service.ErrPaymentInvalid
	w = ts.do(http.MethodPost, "/api/v1/checkout/verify", "customer", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCODOrderPassesIdempotencyKey(t *testing.T) {
	ts := newTestServer(nil)

	w := ts.do(http.MethodPost, "/api/v1/checkout/cod", "customer", `{"address":{"name":"Asha Rao"}}`, "Idempotency-Key", "k-123")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "k-123", ts.checkout.idemKey)
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(nil)

	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodGet, "/api/v1/admin/orders", "customer", "").Code)

	w := ts.do(http.MethodGet, "/api/v1/admin/orders?status=shipped", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"shipped"`)

	w = ts.do(http.MethodPatch, "/api/v1/admin/orders/1/status", "admin", `{"status":"delivered"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestServerErrorsHideDetails(t *testing.T) {
	ts := newTestServer(nil)
	ts.admin.err = errors.New("pq: connection reset by peer")

	w := ts.do(http.MethodGet, "/api/v1/admin/orders", "admin", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to list orders"}`, w.Body.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", service.ErrInvalidInput), http.StatusBadRequest},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrConflict, http.StatusConflict},
		{service.ErrPaymentInvalid, http.StatusBadRequest},
		{service.ErrOutOfStock, http.StatusConflict},
		{service.ErrInvalidTransition, http.StatusConflict},
		{service.ErrEmptyCart, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
