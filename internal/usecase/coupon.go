package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/domain/model"
	"github.com/mercadillo/mercadillo/internal/domain/repository"
)

// CouponUseCase validates coupon codes and records their usage.
type CouponUseCase struct {
	coupons repository.CouponRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewCouponUseCase constructs CouponUseCase.
func NewCouponUseCase(coupons repository.CouponRepository, logger *slog.Logger) *CouponUseCase {
	return &CouponUseCase{coupons: coupons, logger: logger, now: time.Now}
}

// Validate checks code against the cart subtotal and the usage limits of userID.
// An unusable coupon is reported through CouponValidation, not as an error.
func (u *CouponUseCase) Validate(ctx context.Context, code, userID string, subtotal float64) (*model.CouponValidation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", domainErrors.ErrInvalidCoupon)
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", domainErrors.ErrInvalidCoupon)
	}
	if subtotal < 0 {
		return nil, fmt.Errorf("%w: subtotal must not be negative", domainErrors.ErrInvalidCoupon)
	}

	coupon, err := u.coupons.GetByCode(ctx, code)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return rejected(code, "Cupón no válido"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup coupon: %w", err)
	}

	now := u.now()
	switch {
	case !coupon.Active:
		return rejected(code, "Cupón inactivo"), nil
	case coupon.StartsAt != nil && now.Before(*coupon.StartsAt):
		return rejected(code, "Cupón aún no vigente"), nil
	case coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt):
		return rejected(code, "Cupón expirado"), nil
	case subtotal < coupon.MinimumAmount:
		return rejected(code, fmt.Sprintf("Compra mínima de $%.2f", coupon.MinimumAmount)), nil
	}

	if coupon.MaxUses != nil {
		used, err := u.coupons.CountUsages(ctx, coupon.ID)
		if err != nil {
			return nil, fmt.Errorf("count coupon usages: %w", err)
		}
		if used >= *coupon.MaxUses {
			return rejected(code, "Cupón agotado"), nil
		}
	}

	if coupon.MaxUsesPerUser != nil {
		used, err := u.coupons.CountUserUsages(ctx, coupon.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("count user coupon usages: %w", err)
		}
		if used >= *coupon.MaxUsesPerUser {
			return rejected(code, "Ya utilizaste este cupón"), nil
		}
	}

	return &model.CouponValidation{
		Valid:    true,
		CouponID: coupon.ID,
		Code:     coupon.Code,
		Discount: CouponDiscount(*coupon, subtotal),
	}, nil
}

// RegisterUsage records that orderID used code. Failures are logged and reported, never returned.
func (u *CouponUseCase) RegisterUsage(ctx context.Context, code, userID, orderID string, discount float64) model.SideEffectResult {
	result := model.SideEffectResult{Name: model.SideEffectCouponUsage}
	log := u.logger.With(slog.String("coupon", code), slog.String("order_id", orderID))

	coupon, err := u.coupons.GetByCode(ctx, code)
	if err != nil {
		log.WarnContext(ctx, "coupon lookup failed", slog.Any("error", err))
		result.Status = model.SideEffectFailed
		result.Reason = fmt.Sprintf("lookup coupon: %v", err)
		return result
	}

	err = u.coupons.RecordUsage(ctx, model.CouponUsage{
		CouponID:       coupon.ID,
		UserID:         userID,
		OrderID:        orderID,
		DiscountAmount: discount,
	})
	if err != nil {
		log.WarnContext(ctx, "coupon usage not recorded", slog.Any("error", err))
		result.Status = model.SideEffectFailed
		result.Reason = fmt.Sprintf("record usage: %v", err)
		return result
	}

	log.InfoContext(ctx, "coupon usage recorded", slog.Int64("coupon_id", coupon.ID))
	result.Status = model.SideEffectOK
	return result
}

func rejected(code, reason string) *model.CouponValidation {
	return &model.CouponValidation{Code: code, Reason: reason}
}
