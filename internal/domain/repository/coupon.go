package repository

import (
	"context"

	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// CouponRepository provides access to coupons and their usage log.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	CountUsages(ctx context.Context, couponID int64) (int, error)
	CountUserUsages(ctx context.Context, couponID int64, userID string) (int, error)
	RecordUsage(ctx context.Context, usage model.CouponUsage) error
}
