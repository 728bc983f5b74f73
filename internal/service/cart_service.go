package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/store"
	"kurtis-boutique/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService handles per-user carts
type CartService struct {
	store  CartStore
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store CartStore) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CartLineView is a cart line with its computed prices
type CartLineView struct {
	models.CartLine
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Cart is the server copy of a user's cart
type Cart struct {
	Items     []CartLineView  `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// AddItemRequest adds quantity of a product in a size
type AddItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// MergeResult reports guest-cart lines that could not be merged
type MergeResult struct {
	Cart    *Cart            `json:"cart"`
	Skipped []AddItemRequest `json:"skipped"`
}

// GetCart returns the cart with current prices
func (s *CartService) GetCart(ctx context.Context, userID string) (*Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.GetCart")
	defer span.End()

	lines, err := s.store.ListCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return buildCart(lines), nil
}

// AddItem inserts the (product, size) row or increments its quantity
func (s *CartService) AddItem(ctx context.Context, userID string, req AddItemRequest) (*Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	if err := s.addItem(ctx, userID, req); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// MergeItems folds a guest cart into the user's cart, skipping lines that fail
func (s *CartService) MergeItems(ctx context.Context, userID string, items []AddItemRequest) (*MergeResult, error) {
	ctx, span := util.StartSpan(ctx, "CartService.MergeItems")
	defer span.End()

	skipped := []AddItemRequest{}
	for _, item := range items {
		if err := s.addItem(ctx, userID, item); err != nil {
			if !isClientError(err) {
				return nil, err
			}
			s.logger.Info("Skipping guest cart line",
				zap.String("user_id", userID),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err))
			skipped = append(skipped, item)
		}
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MergeResult{Cart: cart, Skipped: skipped}, nil
}

func (s *CartService) addItem(ctx context.Context, userID string, req AddItemRequest) error {
	if req.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	size := strings.ToUpper(strings.TrimSpace(req.Size))

	product, err := s.store.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return fmt.Errorf("product %d: %w", req.ProductID, ErrNotFound)
	}
	if !product.HasSize(size) {
		return fmt.Errorf("%w: size %q not offered", ErrInvalidInput, size)
	}

	for attempt := 0; attempt < 2; attempt++ {
		existing, err := s.store.GetCartItem(ctx, userID, req.ProductID, size)
		switch {
		case err == nil:
			quantity := existing.Quantity + req.Quantity
			if quantity > product.StockRemaining {
				return fmt.Errorf("%w: only %d left", ErrOutOfStock, product.StockRemaining)
			}
			return s.store.UpdateCartQuantity(ctx, userID, existing.ID, quantity)

		case errors.Is(err, store.ErrNotFound):
			if req.Quantity > product.StockRemaining {
				return fmt.Errorf("%w: only %d left", ErrOutOfStock, product.StockRemaining)
			}
			item := &models.CartItem{
				UserID:    userID,
				ProductID: req.ProductID,
				Size:      size,
				Quantity:  req.Quantity,
			}
			err := s.store.InsertCartItem(ctx, item)
			if errors.Is(err, store.ErrDuplicate) {
				// Lost an insert race with another request; increment instead.
				continue
			}
			return err

		default:
			return err
		}
	}

	return fmt.Errorf("%w: cart item changed concurrently", ErrConflict)
}

// UpdateQuantity sets a line's quantity; zero removes it
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, itemID int64, quantity int) (*Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateQuantity")
	defer span.End()

	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}

	if quantity == 0 {
		if err := s.store.DeleteCartItem(ctx, userID, itemID); err != nil {
			return nil, err
		}
		return s.GetCart(ctx, userID)
	}

	item, err := s.store.GetCartItemByID(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	product, err := s.store.GetProductByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.StockRemaining {
		return nil, fmt.Errorf("%w: only %d left", ErrOutOfStock, product.StockRemaining)
	}

	if err := s.store.UpdateCartQuantity(ctx, userID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem deletes a cart line
func (s *CartService) RemoveItem(ctx context.Context, userID string, itemID int64) (*Cart, error) {
	if err := s.store.DeleteCartItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// ClearCart empties the cart
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.store.ClearCart(ctx, userID)
}

func buildCart(lines []models.CartLine) *Cart {
	cart := &Cart{Items: make([]CartLineView, 0, len(lines)), Subtotal: decimal.Zero}
	for _, l := range lines {
		view := CartLineView{CartLine: l, UnitPrice: l.UnitPrice(), LineTotal: l.LineTotal()}
		cart.Items = append(cart.Items, view)
		cart.ItemCount += l.Quantity
		cart.Subtotal = cart.Subtotal.Add(view.LineTotal)
	}
	return cart
}

func isClientError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrOutOfStock)
}
