package model

import "time"

// DiscountType tells how a coupon value is applied.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "porcentaje"
	DiscountTypeFixed      DiscountType = "monto_fijo"
)

// Coupon is a discount code.
type Coupon struct {
	ID             int64
	Code           string
	DiscountType   DiscountType
	Value          float64
	MinimumAmount  float64
	MaxUses        *int
	MaxUsesPerUser *int
	Active         bool
	StartsAt       *time.Time
	ExpiresAt      *time.Time
}

// CouponUsage links a coupon, a buyer and an order.
type CouponUsage struct {
	CouponID       int64
	UserID         string
	OrderID        string
	DiscountAmount float64
}

// CouponValidation is the outcome of checking a code against a cart.
type CouponValidation struct {
	Valid    bool
	CouponID int64
	Code     string
	Discount float64
	Reason   string
}
