package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemIncrementsExistingLine(t *testing.T) {
	st := newMemStore()
	p := st.addProduct("Chikankari Kurti", "1299", 10, "M", "L")
	svc := NewCartService(st)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", AddItemRequest{ProductID: p.ID, Size: "m", Quantity: 1})
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "u1", AddItemRequest{ProductID: p.ID, Size: "M", Quantity: 2})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.ItemCount)
	assert.True(t, decimal.NewFromInt(3897).Equal(cart.Subtotal))

	cart, err = svc.AddItem(ctx, "u1", AddItemRequest{ProductID: p.ID, Size: "L", Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestAddItemValidation(t *testing.T) {
	st := newMemStore()
	p := st.addProduct("Anarkali", "1999", 2, "S")
	inactive := st.addProduct("Old Stock", "999", 5)
	inactive.IsActive = false
	svc := NewCartService(st)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     AddItemRequest
		wantErr error
	}{
		{"zero quantity", AddItemRequest{ProductID: p.ID, Size: "S", Quantity: 0}, ErrInvalidInput},
		{"size not offered", AddItemRequest{ProductID: p.ID, Size: "XL", Quantity: 1}, ErrInvalidInput},
		{"above stock", AddItemRequest{ProductID: p.ID, Size: "S", Quantity: 3}, ErrOutOfStock},
		{"inactive product", AddItemRequest{ProductID: inactive.ID, Quantity: 1}, ErrNotFound},
		{"unknown product", AddItemRequest{ProductID: 999, Quantity: 1}, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(ctx, "u1", tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddItemStockCountsExistingQuantity(t *testing.T) {
	st := newMemStore()
	p := st.addProduct("Straight Kurti", "899", 3, "M")
	svc := NewCartService(st)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", AddItemRequest{ProductID: p.ID, Size: "M", Quantity: 2})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "u1", AddItemRequest{ProductID: p.ID, Size: "M", Quantity: 2})
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	st := newMemStore()
	p := st.addProduct("Kurti Set", "2499", 5, "M")
	svc := NewCartService(st)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "u1", AddItemRequest{ProductID: p.ID, Size: "M", Quantity: 1})
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = svc.UpdateQuantity(ctx, "u1", itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	_, err = svc.UpdateQuantity(ctx, "u1", itemID, 6)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = svc.UpdateQuantity(ctx, "u2", itemID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	cart, err = svc.UpdateQuantity(ctx, "u1", itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Subtotal.IsZero())
}

func TestMergeItemsSkipsInvalidLines(t *testing.T) {
	st := newMemStore()
	p := st.addProduct("Palazzo Set", "1799", 5, "M")
	svc := NewCartService(st)

	res, err := svc.MergeItems(context.Background(), "u1", []AddItemRequest{
		{ProductID: p.ID, Size: "M", Quantity: 1},
		{ProductID: p.ID, Size: "XXL", Quantity: 1},
		{ProductID: 404, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Len(t, res.Cart.Items, 1)
	assert.Len(t, res.Skipped, 2)
}

func TestCartLineUsesDiscountPrice(t *testing.T) {
	st := newMemStore()
	p := st.addProduct("Festive Kurti", "2000", 5)
	p.DiscountPrice = decimal.NewFromInt(1500)
	svc := NewCartService(st)

	cart, err := svc.AddItem(context.Background(), "u1", AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(cart.Items[0].UnitPrice))
	assert.True(t, decimal.NewFromInt(3000).Equal(cart.Subtotal))
}
