package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"kurtis-boutique/config"
	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/payment"
	"kurtis-boutique/internal/redisclient"
	"kurtis-boutique/internal/shipping"
	"kurtis-boutique/internal/store"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the Postgres store
type memStore struct {
	mu             sync.Mutex
	nextID         int64
	products       map[int64]*models.Product
	categories     []models.Category
	cart           map[int64]*models.CartItem
	orders         map[int64]*models.Order
	items          map[int64][]models.OrderItem
	timeline       map[int64][]models.OrderTimeline
	customisations map[int64]*models.CustomisationRequest
	wishlist       map[string]map[int64]bool
	placeErr       error
}

func newMemStore() *memStore {
	return &memStore{
		products:       map[int64]*models.Product{},
		cart:           map[int64]*models.CartItem{},
		orders:         map[int64]*models.Order{},
		items:          map[int64][]models.OrderItem{},
		timeline:       map[int64][]models.OrderTimeline{},
		customisations: map[int64]*models.CustomisationRequest{},
		wishlist:       map[string]map[int64]bool{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addProduct(name string, price string, stock int, sizes ...string) *models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Product{
		ID:             m.id(),
		Name:           name,
		Slug:           Slugify(name),
		Price:          decimal.RequireFromString(price),
		StockRemaining: stock,
		WeightKg:       decimal.RequireFromString("0.4"),
		IsActive:       true,
	}
	for _, s := range sizes {
		p.Sizes = append(p.Sizes, models.ProductSize{ProductID: p.ID, Size: s})
	}
	m.products[p.ID] = p
	return p
}

func (m *memStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, store.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.products {
		if !f.IncludeInactive && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Offset >= len(out) {
		return []models.Product{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) CreateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.Slug == p.Slug {
			return store.ErrDuplicate
		}
	}
	p.ID = m.id()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.products[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	cp := *p
	if p.Sizes == nil {
		cp.Sizes = current.Sizes
	}
	if p.Images == nil {
		cp.Images = current.Images
	}
	m.products[p.ID] = &cp
	return nil
}

func (m *memStore) SetProductActive(ctx context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.IsActive = active
	return nil
}

func (m *memStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	return m.categories, nil
}

func (m *memStore) GetCartItem(ctx context.Context, userID string, productID int64, size string) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.cart {
		if it.UserID == userID && it.ProductID == productID && it.Size == size {
			cp := *it
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) GetCartItemByID(ctx context.Context, userID string, id int64) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.cart[id]
	if !ok || it.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *memStore) InsertCartItem(ctx context.Context, item *models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.cart {
		if it.UserID == item.UserID && it.ProductID == item.ProductID && it.Size == item.Size {
			return store.ErrDuplicate
		}
	}
	item.ID = m.id()
	cp := *item
	m.cart[item.ID] = &cp
	return nil
}

func (m *memStore) UpdateCartQuantity(ctx context.Context, userID string, id int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.cart[id]
	if !ok || it.UserID != userID {
		return store.ErrNotFound
	}
	it.Quantity = quantity
	return nil
}

func (m *memStore) DeleteCartItem(ctx context.Context, userID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.cart[id]
	if !ok || it.UserID != userID {
		return store.ErrNotFound
	}
	delete(m.cart, id)
	return nil
}

func (m *memStore) ListCartLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := []models.CartLine{}
	for _, it := range m.cart {
		if it.UserID != userID {
			continue
		}
		p := m.products[it.ProductID]
		lines = append(lines, models.CartLine{
			ID:             it.ID,
			ProductID:      it.ProductID,
			Size:           it.Size,
			Quantity:       it.Quantity,
			Name:           p.Name,
			Price:          p.Price,
			DiscountPrice:  p.DiscountPrice,
			StockRemaining: p.StockRemaining,
			WeightKg:       p.WeightKg,
			IsActive:       p.IsActive,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines, nil
}

func (m *memStore) ClearCart(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCartLocked(userID)
	return nil
}

func (m *memStore) clearCartLocked(userID string) {
	for id, it := range m.cart {
		if it.UserID == userID {
			delete(m.cart, id)
		}
	}
}

func (m *memStore) PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.placeErr != nil {
		return m.placeErr
	}
	for _, o := range m.orders {
		if order.GatewayPaymentID != "" && o.GatewayPaymentID == order.GatewayPaymentID {
			return store.ErrDuplicate
		}
	}

	order.ID = m.id()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	cp := *order
	m.orders[order.ID] = &cp

	stored := make([]models.OrderItem, len(items))
	for i := range items {
		items[i].ID = m.id()
		items[i].OrderID = order.ID
		stored[i] = items[i]
		if p, ok := m.products[items[i].ProductID]; ok {
			p.StockRemaining -= items[i].Quantity
			if p.StockRemaining < 0 {
				p.StockRemaining = 0
			}
		}
	}
	m.items[order.ID] = stored
	m.timeline[order.ID] = append(m.timeline[order.ID], models.OrderTimeline{ID: m.id(), OrderID: order.ID, Status: order.Status, Note: note})
	for id, it := range m.cart {
		for _, oi := range items {
			if it.UserID == order.UserID && it.ProductID == oi.ProductID && it.Size == oi.Size {
				delete(m.cart, id)
			}
		}
	}
	return nil
}

func (m *memStore) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, store.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) GetOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.GatewayPaymentID == paymentID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) ListOrders(ctx context.Context, status string, limit, offset int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return []models.Order{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.OrderItem{}, m.items[orderID]...), nil
}

func (m *memStore) GetOrderTimeline(ctx context.Context, orderID int64) ([]models.OrderTimeline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.OrderTimeline{}, m.timeline[orderID]...), nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, change store.StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[change.OrderID]
	if !ok || o.Status != change.From {
		return store.ErrStaleStatus
	}
	o.Status = change.To
	if change.To == models.OrderStatusRefunded {
		o.PaymentStatus = models.PaymentStatusRefunded
	}
	m.timeline[o.ID] = append(m.timeline[o.ID], models.OrderTimeline{ID: m.id(), OrderID: o.ID, Status: change.To, Note: change.Note})
	if change.Restock {
		for _, it := range m.items[o.ID] {
			if p, ok := m.products[it.ProductID]; ok {
				p.StockRemaining += it.Quantity
			}
		}
	}
	return nil
}

func (m *memStore) UpdateShipment(ctx context.Context, orderID int64, u models.ShipmentUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	if u.ShiprocketOrderID > 0 {
		o.ShiprocketOrderID = u.ShiprocketOrderID
	}
	if u.ShipmentID > 0 {
		o.ShipmentID = u.ShipmentID
	}
	if u.CourierID > 0 {
		o.CourierID = u.CourierID
	}
	if u.CourierName != "" {
		o.CourierName = u.CourierName
	}
	if u.AWBCode != "" {
		o.AWBCode = u.AWBCode
	}
	if u.TrackingURL != "" {
		o.TrackingURL = u.TrackingURL
	}
	if u.LabelURL != "" {
		o.LabelURL = u.LabelURL
	}
	if u.InvoiceURL != "" {
		o.InvoiceURL = u.InvoiceURL
	}
	return nil
}

func (m *memStore) CreateCustomisation(ctx context.Context, r *models.CustomisationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.id()
	cp := *r
	m.customisations[r.ID] = &cp
	return nil
}

func (m *memStore) ListCustomisations(ctx context.Context, status string) ([]models.CustomisationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CustomisationRequest{}
	for _, r := range m.customisations {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) ListCustomisationsByUser(ctx context.Context, userID string) ([]models.CustomisationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CustomisationRequest{}
	for _, r := range m.customisations {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) UpdateCustomisation(ctx context.Context, id int64, status, note string) (*models.CustomisationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.customisations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	r.Status = status
	r.AdminNote = note
	cp := *r
	return &cp, nil
}

func (m *memStore) AddWishlistItem(ctx context.Context, userID string, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wishlist[userID] == nil {
		m.wishlist[userID] = map[int64]bool{}
	}
	m.wishlist[userID][productID] = true
	return nil
}

func (m *memStore) RemoveWishlistItem(ctx context.Context, userID string, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wishlist[userID], productID)
	return nil
}

func (m *memStore) ListWishlist(ctx context.Context, userID string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for id := range m.wishlist[userID] {
		out = append(out, *m.products[id])
	}
	return out, nil
}

// memCache is an in-memory Cache
type memCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	locks map[string]bool
	err   error
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, locks: map[string]bool{}}
}

func (c *memCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	b, ok := c.data[key]
	if !ok {
		return redisclient.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	if c.locks[lockKey] {
		return false, nil
	}
	c.locks[lockKey] = true
	return true, nil
}

func (c *memCache) ReleaseLock(ctx context.Context, lockKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, lockKey)
	return nil
}

func (c *memCache) SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data["idempotency:"+key] = []byte(fmt.Sprint(value))
	return nil
}

func (c *memCache) GetIdempotencyKey(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	b, ok := c.data["idempotency:"+key]
	if !ok {
		return "", redisclient.ErrCacheMiss
	}
	return string(b), nil
}

const testKeySecret = "test_secret"

// fakeGateway signs like the real gateway with a fixed secret
type fakeGateway struct {
	mu            sync.Mutex
	orders        []payment.OrderRequest
	byID          map[string]*payment.Order
	refunds       []string
	refundAmounts []int64
	createErr     error
	fetchErr      error
}

// putOrder registers a gateway order as if the browser had paid it
func (g *fakeGateway) putOrder(o payment.Order) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.byID == nil {
		g.byID = make(map[string]*payment.Order)
	}
	g.byID[o.ID] = &o
}

func (g *fakeGateway) KeyID() string    { return "rzp_test_key" }
func (g *fakeGateway) Currency() string { return "INR" }

func (g *fakeGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.orders = append(g.orders, req)
	o := &payment.Order{
		ID:       fmt.Sprintf("order_%d", len(g.orders)),
		Amount:   req.AmountPaise,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
		Notes:    req.Notes,
	}
	if g.byID == nil {
		g.byID = make(map[string]*payment.Order)
	}
	stored := *o
	g.byID[o.ID] = &stored
	return o, nil
}

func (g *fakeGateway) FetchOrder(ctx context.Context, orderID string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	o, ok := g.byID[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	out := *o
	return &out, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.Sign(testKeySecret, orderID, paymentID) == signature
}

func (g *fakeGateway) Refund(ctx context.Context, paymentID string, amountPaise int64) (*payment.Refund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds = append(g.refunds, paymentID)
	g.refundAmounts = append(g.refundAmounts, amountPaise)
	return &payment.Refund{ID: "rfnd_1", PaymentID: paymentID, Amount: amountPaise, Status: "processed"}, nil
}

// fakeShipper records aggregator calls
type fakeShipper struct {
	mu        sync.Mutex
	rates     []shipping.Rate
	rateErr   error
	rateCalls int
	lastKg    float64
	created   []shipping.CreateOrderRequest
	createErr error
	cancelled []int64
	tracking  *shipping.Tracking
}

func (s *fakeShipper) Rates(ctx context.Context, pincode string, weightKg float64, cod bool) ([]shipping.Rate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateCalls++
	s.lastKg = weightKg
	if s.rateErr != nil {
		return nil, s.rateErr
	}
	out := append([]shipping.Rate{}, s.rates...)
	sort.Slice(out, func(i, j int) bool { return out[i].Rate.LessThan(out[j].Rate) })
	return out, nil
}

func (s *fakeShipper) CheapestRate(ctx context.Context, pincode string, weightKg float64, cod bool) (*shipping.Rate, error) {
	rates, err := s.Rates(ctx, pincode, weightKg, cod)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, shipping.ErrNoCourier
	}
	return &rates[0], nil
}

func (s *fakeShipper) CreateOrder(ctx context.Context, req shipping.CreateOrderRequest) (*shipping.CreateOrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, req)
	return &shipping.CreateOrderResponse{OrderID: 9000 + int64(len(s.created)), ShipmentID: 7000 + int64(len(s.created))}, nil
}

func (s *fakeShipper) AssignAWB(ctx context.Context, shipmentID, courierID int64) (*shipping.AWBAssignment, error) {
	return &shipping.AWBAssignment{AWBCode: "AWB123", CourierID: courierID, CourierName: "Delhivery", ShipmentID: shipmentID}, nil
}

func (s *fakeShipper) GeneratePickup(ctx context.Context, shipmentID int64) (*shipping.Pickup, error) {
	return &shipping.Pickup{ScheduledDate: "2026-10-15", Status: 1}, nil
}

func (s *fakeShipper) GenerateLabel(ctx context.Context, shipmentID int64) (string, error) {
	return "https://labels.example/1.pdf", nil
}

func (s *fakeShipper) GenerateInvoice(ctx context.Context, shiprocketOrderID int64) (string, error) {
	return "https://invoices.example/1.pdf", nil
}

func (s *fakeShipper) TrackAWB(ctx context.Context, awb string) (*shipping.Tracking, error) {
	if s.tracking == nil {
		return nil, errors.New("no tracking")
	}
	return s.tracking, nil
}

func (s *fakeShipper) CancelOrders(ctx context.Context, ids ...int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, ids...)
	return nil
}

// fakePublisher records published events
type fakePublisher struct {
	mu       sync.Mutex
	placed   []*models.OrderPlacedEvent
	changed  []*models.OrderStatusChangedEvent
	shipped  []*models.ShipmentRegisteredEvent
	placeErr error
}

func (p *fakePublisher) PublishOrderPlaced(ctx context.Context, e *models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.placeErr != nil {
		return p.placeErr
	}
	p.placed = append(p.placed, e)
	return nil
}

func (p *fakePublisher) PublishStatusChanged(ctx context.Context, e *models.OrderStatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, e)
	return nil
}

func (p *fakePublisher) PublishShipmentRegistered(ctx context.Context, e *models.ShipmentRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shipped = append(p.shipped, e)
	return nil
}

// chanRegistrar signals each direct registration
type chanRegistrar struct {
	calls chan int64
}

func (r *chanRegistrar) RegisterShipment(ctx context.Context, orderID int64) error {
	r.calls <- orderID
	return nil
}

// fakeMailer records sent emails
type fakeMailer struct {
	mu            sync.Mutex
	confirmations []string
	updates       []string
}

func (m *fakeMailer) SendOrderConfirmation(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, order.OrderNumber)
	return nil
}

func (m *fakeMailer) SendShipmentUpdate(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, order.OrderNumber)
	return nil
}

func testBusiness() config.BusinessConfig {
	return config.BusinessConfig{
		FlatShippingRate:      decimal.NewFromInt(99),
		FreeShippingThreshold: decimal.NewFromInt(2999),
		CODFee:                decimal.NewFromInt(49),
		QuoteTTL:              30 * time.Minute,
		RateCacheTTL:          time.Hour,
	}
}

func testParcel() config.ShiprocketConfig {
	return config.ShiprocketConfig{
		PickupLocation: "Primary",
		DefaultWeight:  0.5,
		LengthCm:       30,
		BreadthCm:      25,
		HeightCm:       3,
	}
}

func testAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Phone:   "+91 98765 43210",
		Line1:   "12 MG Road",
		City:    "Pune",
		State:   "Maharashtra",
		Pincode: "411001",
	}
}
