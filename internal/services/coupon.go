package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/cache"
	appErrors "github.com/aaravmahajanofficial/artisan-storefront/internal/errors"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/artisan-storefront/internal/repositories"
)

const couponRateScope = "coupon"

type CouponService interface {
	// Validate resolves a code to its discount. Every rejection is an
	// INVALID_COUPON error carrying a message fit for the buyer.
	Validate(ctx context.Context, code string) (*models.CouponResponse, error)
	// ValidateForSession is Validate behind the per-session attempt limit.
	ValidateForSession(ctx context.Context, sessionID, code string) (*models.CouponResponse, error)
}

type couponService struct {
	repo      repository.CouponRepository
	rateLimit repository.RateLimitRepository
	cache     cache.Cache
	ttl       time.Duration
	now       func() time.Time
}

func NewCouponService(repo repository.CouponRepository, rateLimit repository.RateLimitRepository, cache cache.Cache, ttl time.Duration) CouponService {
	return &couponService{repo: repo, rateLimit: rateLimit, cache: cache, ttl: ttl, now: time.Now}
}

func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *couponService) Validate(ctx context.Context, code string) (*models.CouponResponse, error) {
	code = NormalizeCouponCode(code)
	if code == "" {
		return nil, appErrors.InvalidCouponError("Please enter a coupon code")
	}

	coupon, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	switch {
	case !coupon.Active:
		return nil, appErrors.InvalidCouponError("This coupon is no longer active")
	case coupon.ExpiresAt != nil && !s.now().Before(*coupon.ExpiresAt):
		return nil, appErrors.InvalidCouponError("This coupon has expired")
	case coupon.DiscountPercent <= 0 || coupon.DiscountPercent > 100:
		return nil, appErrors.InvalidCouponError("Invalid coupon code")
	}

	return &models.CouponResponse{Code: coupon.Code, DiscountPercent: coupon.DiscountPercent}, nil
}

func (s *couponService) lookup(ctx context.Context, code string) (*models.Coupon, error) {
	logger := middleware.LoggerFromContext(ctx)
	key := cache.Key(cache.CouponKeyPrefix, code)

	var cached models.Coupon

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Coupon cache read failed", slog.String("code", code), slog.Any("error", err))
	} else if found {
		return &cached, nil
	}

	coupon, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, appErrors.InvalidCouponError("Invalid coupon code").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to look up coupon").WithError(err)
	}

	if err := s.cache.Set(ctx, key, coupon, s.ttl); err != nil {
		logger.Warn("Coupon cache write failed", slog.String("code", code), slog.Any("error", err))
	}

	return coupon, nil
}

func (s *couponService) ValidateForSession(ctx context.Context, sessionID, code string) (*models.CouponResponse, error) {
	allowed, _, retryAfter, err := s.rateLimit.CheckRateLimit(ctx, couponRateScope, sessionID)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return nil, appErrors.TooManyRequestsError("Too many coupon attempts. Please try again later.").
			WithDetail(fmt.Sprintf("retry after %d seconds", retryAfter))
	}

	return s.Validate(ctx, code)
}
