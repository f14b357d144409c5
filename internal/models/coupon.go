package models

import "time"

type Coupon struct {
	Code            string     `json:"code"`
	DiscountPercent float64    `json:"discount_percent"`
	Active          bool       `json:"active"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

type ValidateCouponRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type CouponResponse struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
}
