package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils"
)

type CouponRepository interface {
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type couponRepository struct {
	DB *sql.DB
}

func NewCouponRepo(db *sql.DB) CouponRepository {
	return &couponRepository{DB: db}
}

// GetCouponByCode matches the code exactly; callers normalize case.
func (r *couponRepository) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT code, discount_percent, active, expires_at
		FROM coupons
		WHERE code = $1
	`

	coupon := &models.Coupon{}

	var expiresAt sql.NullTime

	err := r.DB.QueryRowContext(dbCtx, query, code).Scan(&coupon.Code, &coupon.DiscountPercent, &coupon.Active, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	if expiresAt.Valid {
		coupon.ExpiresAt = &expiresAt.Time
	}

	return coupon, nil
}
