package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kurtis-boutique/internal/models"

	"github.com/jmoiron/sqlx"
)

// ProductFilter narrows catalog listings
type ProductFilter struct {
	CategorySlug    string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ListProducts retrieves a page of products
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	query := `
		SELECT p.* FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ($1 OR p.is_active)
		  AND ($2 = '' OR c.slug = $2)
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4`

	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, query, f.IncludeInactive, f.CategorySlug, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return products, nil
	}

	ids := make([]int64, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	images, err := s.imagesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Images = images[products[i].ID]
	}
	return products, nil
}

// GetProductByID retrieves a product with its sizes, images and category
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.SelectContext(ctx, &product.Sizes,
		"SELECT * FROM product_sizes WHERE product_id = $1 ORDER BY id", id); err != nil {
		return nil, err
	}

	images, err := s.imagesFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	product.Images = images[id]

	if product.CategoryID != nil {
		var cat models.Category
		err := s.db.GetContext(ctx, &cat, "SELECT * FROM categories WHERE id = $1", *product.CategoryID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if err == nil {
			product.Category = &cat
		}
	}

	return &product, nil
}

func (s *Store) imagesFor(ctx context.Context, ids []int64) (map[int64][]models.ProductImage, error) {
	query, args, err := sqlx.In(
		"SELECT * FROM product_images WHERE product_id IN (?) ORDER BY product_id, position", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var images []models.ProductImage
	if err := s.db.SelectContext(ctx, &images, query, args...); err != nil {
		return nil, err
	}

	out := make(map[int64][]models.ProductImage, len(ids))
	for _, img := range images {
		out[img.ProductID] = append(out[img.ProductID], img)
	}
	return out, nil
}

// CreateProduct inserts a product with its sizes and images
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (category_id, name, slug, description, price, discount_price,
			stock_remaining, weight_kg, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowxContext(ctx, query,
		p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.DiscountPrice,
		p.StockRemaining, p.WeightKg, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("product slug %q: %w", p.Slug, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	if err := replaceProductChildren(ctx, tx, p); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateProduct updates catalog fields; non-nil Sizes/Images replace the stored ones
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE products
		SET category_id = $1, name = $2, slug = $3, description = $4, price = $5,
			discount_price = $6, stock_remaining = $7, weight_kg = $8, is_active = $9,
			updated_at = NOW()
		WHERE id = $10
		RETURNING created_at, updated_at`

	err = tx.QueryRowxContext(ctx, query,
		p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.DiscountPrice,
		p.StockRemaining, p.WeightKg, p.IsActive, p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %d: %w", p.ID, ErrNotFound)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("product slug %q: %w", p.Slug, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if err := replaceProductChildren(ctx, tx, p); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceProductChildren(ctx context.Context, tx *sqlx.Tx, p *models.Product) error {
	if p.Sizes != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM product_sizes WHERE product_id = $1", p.ID); err != nil {
			return err
		}
		for i := range p.Sizes {
			p.Sizes[i].ProductID = p.ID
			if err := tx.GetContext(ctx, &p.Sizes[i].ID,
				"INSERT INTO product_sizes (product_id, size) VALUES ($1, $2) RETURNING id",
				p.ID, p.Sizes[i].Size); err != nil {
				return fmt.Errorf("failed to insert size: %w", err)
			}
		}
	}

	if p.Images != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM product_images WHERE product_id = $1", p.ID); err != nil {
			return err
		}
		for i := range p.Images {
			p.Images[i].ProductID = p.ID
			p.Images[i].Position = i
			if err := tx.GetContext(ctx, &p.Images[i].ID,
				"INSERT INTO product_images (product_id, url, position) VALUES ($1, $2, $3) RETURNING id",
				p.ID, p.Images[i].URL, i); err != nil {
				return fmt.Errorf("failed to insert image: %w", err)
			}
		}
	}

	return nil
}

// SetProductActive toggles catalog visibility
func (s *Store) SetProductActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET is_active = $1, updated_at = NOW() WHERE id = $2", active, id)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("product %d", id))
}

// ListCategories retrieves all categories
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY name")
	return categories, err
}

func expectRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
