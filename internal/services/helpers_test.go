package service_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/cache"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/artisan-storefront/internal/errors"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionID = "session_0123456789abcdef0123456789abcdef"

func newTestCache(t *testing.T) (cache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return cache.NewRedisCache(client, &config.CacheConfig{DefaultTTL: time.Minute, CartTTL: time.Minute}), mr
}

func price(v float64) *float64 {
	return &v
}

func newProduct(name string, listPrice float64, discount *float64) *models.Product {
	return &models.Product{
		ID:            uuid.New(),
		Name:          name,
		Price:         listPrice,
		DiscountPrice: discount,
		Stock:         10,
		Status:        "active",
	}
}

func assertAppError(t *testing.T, err error, code string) *appErrors.AppError {
	t.Helper()

	require.Error(t, err)
	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)

	return appErr
}
