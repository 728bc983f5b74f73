package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"kurtis-boutique/internal/models"
	"kurtis-boutique/internal/store"
	"kurtis-boutique/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// CatalogService handles product and category reads plus admin edits
type CatalogService struct {
	store  CatalogStore
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ProductQuery selects a page of the catalog
type ProductQuery struct {
	Category        string
	Page            int
	PageSize        int
	IncludeInactive bool
}

// ProductInput is the admin create/update payload
type ProductInput struct {
	CategoryID    *int64          `json:"category_id"`
	Name          string          `json:"name" binding:"required"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
	Stock         int             `json:"stock_remaining"`
	WeightKg      decimal.Decimal `json:"weight_kg"`
	IsActive      *bool           `json:"is_active"`
	Sizes         []string        `json:"sizes"`
	Images        []string        `json:"images"`
}

// ListProducts returns a page of products
func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	limit, offset := paginate(q.Page, q.PageSize)
	return s.store.ListProducts(ctx, store.ProductFilter{
		CategorySlug:    q.Category,
		IncludeInactive: q.IncludeInactive,
		Limit:           limit,
		Offset:          offset,
	})
}

// GetProduct returns a product; inactive products are hidden unless includeInactive
func (s *CatalogService) GetProduct(ctx context.Context, id int64, includeInactive bool) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProduct")
	defer span.End()

	p, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive && !includeInactive {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// ListCategories returns all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

// CreateProduct adds a product to the catalog
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	p, err := productFromInput(in)
	if err != nil {
		return nil, err
	}
	if p.Sizes == nil {
		p.Sizes = []models.ProductSize{}
	}
	if p.Images == nil {
		p.Images = []models.ProductImage{}
	}

	if err := s.store.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: slug %q already exists", ErrConflict, p.Slug)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created", zap.Int64("product_id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

// UpdateProduct replaces a product's catalog fields
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	p, err := productFromInput(in)
	if err != nil {
		return nil, err
	}
	p.ID = id

	if in.IsActive == nil {
		current, err := s.store.GetProductByID(ctx, id)
		if err != nil {
			return nil, err
		}
		p.IsActive = current.IsActive
	}

	if err := s.store.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: slug %q already exists", ErrConflict, p.Slug)
		}
		return nil, err
	}

	return s.store.GetProductByID(ctx, id)
}

// SetProductActive shows or hides a product
func (s *CatalogService) SetProductActive(ctx context.Context, id int64, active bool) error {
	if err := s.store.SetProductActive(ctx, id, active); err != nil {
		return err
	}
	s.logger.Info("Product visibility changed", zap.Int64("product_id", id), zap.Bool("active", active))
	return nil
}

func productFromInput(in ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !in.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if in.DiscountPrice.IsNegative() {
		return nil, fmt.Errorf("%w: discount price must not be negative", ErrInvalidInput)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrInvalidInput)
	}
	if in.WeightKg.IsNegative() {
		return nil, fmt.Errorf("%w: weight must not be negative", ErrInvalidInput)
	}

	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}

	p := &models.Product{
		CategoryID:     in.CategoryID,
		Name:           name,
		Slug:           slug,
		Description:    in.Description,
		Price:          in.Price,
		DiscountPrice:  in.DiscountPrice,
		StockRemaining: in.Stock,
		WeightKg:       in.WeightKg,
		IsActive:       in.IsActive == nil || *in.IsActive,
	}

	if in.Sizes != nil {
		seen := make(map[string]bool, len(in.Sizes))
		p.Sizes = make([]models.ProductSize, 0, len(in.Sizes))
		for _, size := range in.Sizes {
			size = strings.ToUpper(strings.TrimSpace(size))
			if size == "" || seen[size] {
				continue
			}
			seen[size] = true
			p.Sizes = append(p.Sizes, models.ProductSize{Size: size})
		}
	}

	if in.Images != nil {
		p.Images = make([]models.ProductImage, 0, len(in.Images))
		for _, u := range in.Images {
			if u = strings.TrimSpace(u); u != "" {
				p.Images = append(p.Images, models.ProductImage{URL: u})
			}
		}
	}

	return p, nil
}

// Slugify lowercases s and joins alphanumeric runs with dashes
func Slugify(s string) string {
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func paginate(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}
