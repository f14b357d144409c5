package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProductRepository is a read-only view of the catalog.
type ProductRepository interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// ListProducts pages through active products, newest first.
	ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error)
	ListCategories(ctx context.Context) ([]string, error)
}

const productColumns = `id, name, description, category, price, discount_price, stock,
		       sizes, colors, featured, status, created_at, updated_at`

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}

	var discountPrice sql.NullFloat64

	err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.Category,
		&product.Price, &discountPrice, &product.Stock,
		pq.Array(&product.Sizes), pq.Array(&product.Colors),
		&product.Featured, &product.Status, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if discountPrice.Valid {
		product.DiscountPrice = &discountPrice.Float64
	}

	return product, nil
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM products WHERE status = $1`
	if err := r.DB.QueryRowContext(dbCtx, countQuery, models.ProductStatusActive).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * size

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE status = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, models.ProductStatusActive, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0, size)

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the products: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListCategories returns the distinct categories of active products in
// alphabetical order.
func (r *productRepository) ListCategories(ctx context.Context) ([]string, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT DISTINCT category
		FROM products
		WHERE status = $1 AND category <> ''
		ORDER BY category
	`

	rows, err := r.DB.QueryContext(dbCtx, query, models.ProductStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}

	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan the categories: %w", err)
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}
