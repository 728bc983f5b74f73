package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusInTransit, true},
		{OrderStatusInTransit, OrderStatusDelivered, true},
		{OrderStatusDelivered, OrderStatusRefunded, true},
		{OrderStatusCancelled, OrderStatusRefunded, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusInTransit, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusRefunded, OrderStatusConfirmed, false},
		{OrderStatusShipped, OrderStatusPending, false},
		{"bogus", OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusInTransit))
	assert.False(t, ValidOrderStatus("lost"))
}

func TestIsCustomerCancellable(t *testing.T) {
	assert.True(t, IsCustomerCancellable(OrderStatusPending))
	assert.True(t, IsCustomerCancellable(OrderStatusConfirmed))
	assert.False(t, IsCustomerCancellable(OrderStatusShipped))
}

func TestEffectivePrice(t *testing.T) {
	price := decimal.NewFromInt(1999)

	assert.True(t, EffectivePrice(price, decimal.NewFromInt(1499)).Equal(decimal.NewFromInt(1499)))
	assert.True(t, EffectivePrice(price, decimal.Zero).Equal(price))
	assert.True(t, EffectivePrice(price, decimal.NewFromInt(2499)).Equal(price))
}

func TestHasSize(t *testing.T) {
	p := &Product{Sizes: []ProductSize{{Size: "M"}, {Size: "L"}}}
	assert.True(t, p.HasSize("M"))
	assert.False(t, p.HasSize("XL"))

	unsized := &Product{}
	assert.True(t, unsized.HasSize(""))
	assert.False(t, unsized.HasSize("M"))
}

func TestCartLineTotal(t *testing.T) {
	line := CartLine{Price: decimal.NewFromInt(1200), DiscountPrice: decimal.NewFromInt(999), Quantity: 3}
	assert.True(t, line.LineTotal().Equal(decimal.NewFromInt(2997)))
}
