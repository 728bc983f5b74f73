package service

import (
	"context"
	"testing"
	"time"

	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/shipping"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	store     *memStore
	shipper   *fakeShipper
	gateway   *fakeGateway
	publisher *fakePublisher
	shipments *ShipmentService
	admin     *AdminService
	orders    *OrderService
	product   *models.Product
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		store:     newMemStore(),
		shipper:   &fakeShipper{},
		gateway:   &fakeGateway{},
		publisher: &fakePublisher{},
	}
	f.product = f.store.addProduct("Bandhani Kurti", "1200", 10, "M")
	f.shipments = NewShipmentService(f.store, f.shipper, f.publisher, &fakeMailer{}, testParcel())
	f.admin = NewAdminService(f.store, f.shipper, f.gateway, f.publisher, f.shipments, testParcel().DefaultWeight)
	f.orders = NewOrderService(f.store, f.shipper, f.publisher)
	return f
}

// placeOrder stores an order for two units directly
func (f *adminFixture) placeOrder(t *testing.T, user, method, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:     NewOrderNumber(time.Now()),
		UserID:          user,
		ShippingAddress: testAddress(),
		PaymentMethod:   method,
		PaymentStatus:   models.PaymentStatusCODPending,
		Subtotal:        decimal.NewFromInt(2400),
		ShippingFee:     decimal.NewFromInt(65),
		Total:           decimal.NewFromInt(2465),
		Status:          status,
	}
	if method == models.PaymentMethodOnline {
		order.PaymentStatus = models.PaymentStatusPaid
		order.GatewayPaymentID = "pay_" + order.OrderNumber
	}
	items := []models.OrderItem{{ProductID: f.product.ID, ProductName: f.product.Name, Size: "M", UnitPrice: f.product.Price, Quantity: 2}}
	require.NoError(t, f.store.PlaceOrder(context.Background(), order, items, "placed"))
	return order
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	f := newAdminFixture()
	order := f.placeOrder(t, "u1", models.PaymentMethodCOD, models.OrderStatusPending)

	_, err := f.admin.UpdateStatus(context.Background(), order.ID, models.OrderStatusDelivered, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.admin.UpdateStatus(context.Background(), order.ID, "lost", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatusCancelRestocksAndPublishes(t *testing.T) {
	f := newAdminFixture()
	order := f.placeOrder(t, "u1", models.PaymentMethodCOD, models.OrderStatusPending)
	ctx := context.Background()

	p, _ := f.store.GetProductByID(ctx, f.product.ID)
	require.Equal(t, 8, p.StockRemaining)

	updated, err := f.admin.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled, "customer called")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)

	p, _ = f.store.GetProductByID(ctx, f.product.ID)
	assert.Equal(t, 10, p.StockRemaining)

	require.Len(t, f.publisher.changed, 1)
	assert.Equal(t, models.OrderStatusPending, f.publisher.changed[0].From)
	assert.Equal(t, models.OrderStatusCancelled, f.publisher.changed[0].To)

	timeline, _ := f.store.GetOrderTimeline(ctx, order.ID)
	require.Len(t, timeline, 2)
	assert.Equal(t, "customer called", timeline[1].Note)
}

func TestUpdateStatusRefundCallsGateway(t *testing.T) {
	f := newAdminFixture()
	order := f.placeOrder(t, "u1", models.PaymentMethodOnline, models.OrderStatusDelivered)

	updated, err := f.admin.UpdateStatus(context.Background(), order.ID, models.OrderStatusRefunded, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRefunded, updated.Status)
	assert.Equal(t, models.PaymentStatusRefunded, updated.PaymentStatus)
	assert.Equal(t, []string{order.GatewayPaymentID}, f.gateway.refunds)
	assert.Equal(t, []int64{0}, f.gateway.refundAmounts)
}

func TestUpdateStatusRefundRequiresCollectedPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelled cod order", func(t *testing.T) {
		f := newAdminFixture()
		order := f.placeOrder(t, "u1", models.PaymentMethodCOD, models.OrderStatusPending)
		_, err := f.admin.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled, "")
		require.NoError(t, err)

		_, err = f.admin.UpdateStatus(ctx, order.ID, models.OrderStatusRefunded, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Empty(t, f.gateway.refunds)

		stored, _ := f.store.GetOrderByID(ctx, order.ID)
		assert.Equal(t, models.OrderStatusCancelled, stored.Status)
		assert.Equal(t, models.PaymentStatusCODPending, stored.PaymentStatus)
	})

	t.Run("delivered cod order", func(t *testing.T) {
		f := newAdminFixture()
		order := f.placeOrder(t, "u1", models.PaymentMethodCOD, models.OrderStatusDelivered)

		updated, err := f.admin.UpdateStatus(ctx, order.ID, models.OrderStatusRefunded, "cash returned")
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusRefunded, updated.Status)
		assert.Empty(t, f.gateway.refunds)
	})

	t.Run("online order already refunded", func(t *testing.T) {
		f := newAdminFixture()
		order := f.placeOrder(t, "u1", models.PaymentMethodOnline, models.OrderStatusCancelled)
		f.store.orders[order.ID].PaymentStatus = models.PaymentStatusRefunded

		_, err := f.admin.UpdateStatus(ctx, order.ID, models.OrderStatusRefunded, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Empty(t, f.gateway.refunds)
	})
}

func TestAssignCourierRegistersShipment(t *testing.T) {
	f := newAdminFixture()
	order := f.placeOrder(t, "u1", models.PaymentMethodOnline, models.OrderStatusConfirmed)

	updated, err := f.admin.AssignCourier(context.Background(), order.ID, 42)
	require.NoError(t, err)

	require.Len(t, f.shipper.created, 1)
	assert.Equal(t, "AWB123", updated.AWBCode)
	assert.Equal(t, int64(42), updated.CourierID)
	assert.Equal(t, "https://shiprocket.co/tracking/AWB123", updated.TrackingURL)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)
	assert.NotZero(t, updated.ShipmentID)
}

func TestSchedulePickupMarksShipped(t *testing.T) {
	f := newAdminFixture()
	order := f.placeOrder(t, "u1", models.PaymentMethodCOD, models.OrderStatusPending)
	ctx := context.Background()

	_, err := f.admin.SchedulePickup(ctx, order.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.admin.AssignCourier(ctx, order.ID, 0)
	require.NoError(t, err)

	updated, err := f.admin.SchedulePickup(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	label, err := f.admin.GenerateLabel(ctx, order.ID)
	require.NoError(t, err)
	invoice, err := f.admin.GenerateInvoice(ctx, order.ID)
	require.NoError(t, err)

	stored, _ := f.store.GetOrderByID(ctx, order.ID)
	assert.Equal(t, label, stored.LabelURL)
	assert.Equal(t, invoice, stored.InvoiceURL)
}

func TestTrackShipmentMirrorsStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		courier string
		want    string
	}{
		{"delivered from shipped", models.OrderStatusShipped, "DELIVERED", models.OrderStatusDelivered},
		{"in transit steps through shipped", models.OrderStatusProcessing, "IN TRANSIT", models.OrderStatusInTransit},
		{"rto ignored", models.OrderStatusShipped, "RTO INITIATED", models.OrderStatusShipped},
		{"no backwards move", models.OrderStatusDelivered, "IN TRANSIT", models.OrderStatusDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture()
			order := f.placeOrder(t, "u1", models.PaymentMethodOnline, tt.from)
			require.NoError(t, f.store.UpdateShipment(context.Background(), order.ID, models.ShipmentUpdate{AWBCode: "AWB9"}))
			f.shipper.tracking = &shipping.Tracking{AWBCode: "AWB9", CurrentStatus: tt.courier}

			res, err := f.admin.TrackShipment(context.Background(), order.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Order.Status)
		})
	}
}

func TestMapTrackingStatus(t *testing.T) {
	tests := map[string]string{
		"Delivered":        models.OrderStatusDelivered,
		"OUT FOR DELIVERY": models.OrderStatusInTransit,
		"In Transit":       models.OrderStatusInTransit,
		"REACHED AT HUB":   models.OrderStatusInTransit,
		"Picked Up":        models.OrderStatusShipped,
		"SHIPPED":          models.OrderStatusShipped,
		"UNDELIVERED":      "",
		"RTO DELIVERED":    "",
		"Pickup Scheduled": "",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, MapTrackingStatus(in), in)
	}
}

func TestListOrdersValidatesStatus(t *testing.T) {
	f := newAdminFixture()
	f.placeOrder(t, "u1", models.PaymentMethodCOD, models.OrderStatusPending)
	f.placeOrder(t, "u2", models.PaymentMethodOnline, models.OrderStatusConfirmed)

	orders, err := f.admin.ListOrders(context.Background(), OrderQuery{Status: models.OrderStatusPending})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = f.admin.ListOrders(context.Background(), OrderQuery{Status: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCourierOptionsDefaultsWeightFromUnits(t *testing.T) {
	f := newAdminFixture()
	f.shipper.rates = []shipping.Rate{
		{CourierID: 2, CourierName: "Xpressbees", Rate: decimal.NewFromInt(80)},
		{CourierID: 1, CourierName: "Delhivery", Rate: decimal.NewFromInt(65)},
	}
	order := f.placeOrder(t, "u1", models.PaymentMethodCOD, models.OrderStatusPending)

	rates, err := f.admin.CourierOptions(context.Background(), order.ID, 0)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "Delhivery", rates[0].CourierName)
	assert.Equal(t, 1.0, f.shipper.lastKg)

	_, err = f.admin.CourierOptions(context.Background(), order.ID, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, f.shipper.lastKg)
}
