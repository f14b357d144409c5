package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/cache"
	appErrors "github.com/aaravmahajanofficial/artisan-storefront/internal/errors"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/artisan-storefront/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// CatalogService resolves product ids to validated products. Malformed catalog
// rows never leave this boundary.
type CatalogService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// ResolveProducts returns the products it could resolve and the ids it
	// could not. Only infrastructure failures are returned as errors.
	ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, []uuid.UUID, error)
	ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type catalogService struct {
	repo  repository.ProductRepository
	cache cache.Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewCatalogService(repo repository.ProductRepository, cache cache.Cache, ttl time.Duration) CatalogService {
	return &catalogService{repo: repo, cache: cache, ttl: ttl}
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	logger := middleware.LoggerFromContext(ctx)
	key := cache.Key(cache.ProductKeyPrefix, id.String())

	var cached models.Product

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Product cache read failed", slog.String("productId", id.String()), slog.Any("error", err))
	} else if found {
		return &cached, nil
	}

	// concurrent misses for the same product share one query
	v, err, _ := s.group.Do(id.String(), func() (any, error) {
		return s.repo.GetProductByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	product := v.(*models.Product)

	if err := product.Validate(); err != nil {
		logger.Warn("Rejected malformed catalog row", slog.String("productId", id.String()), slog.Any("error", err))
		return nil, appErrors.NotFoundError("Product not found").WithDetail(err.Error()).WithError(err)
	}

	if err := s.cache.Set(ctx, key, product, s.ttl); err != nil {
		logger.Warn("Product cache write failed", slog.String("productId", id.String()), slog.Any("error", err))
	}

	// callers may share the singleflight result, hand each its own copy
	clone := *product

	return &clone, nil
}

func (s *catalogService) ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, []uuid.UUID, error) {
	products := make(map[uuid.UUID]*models.Product, len(ids))

	var missing []uuid.UUID

	for _, id := range ids {
		if _, seen := products[id]; seen {
			continue
		}

		product, err := s.GetProduct(ctx, id)
		if err != nil {
			if appErrors.HasCode(err, appErrors.ErrCodeNotFound) {
				missing = append(missing, id)
				continue
			}

			return nil, nil, err
		}

		products[id] = product
	}

	return products, missing, nil
}

// ListProducts drops malformed rows from the page instead of failing it; the
// total still counts them.
func (s *catalogService) ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error) {
	logger := middleware.LoggerFromContext(ctx)

	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	products, total, err := s.repo.ListProducts(ctx, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	valid := make([]*models.Product, 0, len(products))

	for _, product := range products {
		if err := product.Validate(); err != nil {
			logger.Warn("Rejected malformed catalog row", slog.String("productId", product.ID.String()), slog.Any("error", err))
			continue
		}

		valid = append(valid, product)
	}

	return valid, total, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, nil
}
