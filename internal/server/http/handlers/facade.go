package handlers

import (
	"context"

	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// CheckoutFacade opens payment preferences.
type CheckoutFacade interface {
	CreatePreference(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutSession, error)
}

// WebhookFacade reconciles provider notifications.
type WebhookFacade interface {
	HandleWebhook(ctx context.Context, event model.WebhookEvent) (*model.WebhookResult, error)
}

// CouponFacade validates coupons for a cart.
type CouponFacade interface {
	ValidateCoupon(ctx context.Context, code, userID string, subtotal float64) (*model.CouponValidation, error)
}

// AdminFacade exposes read access to stored orders.
type AdminFacade interface {
	RecentOrders(ctx context.Context, limit int) ([]model.Order, error)
	OrderByReference(ctx context.Context, reference string) (*model.Order, error)
}

// HealthFacade reports dependency health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	CheckoutFacade
	WebhookFacade
	CouponFacade
	AdminFacade
	HealthFacade
}
