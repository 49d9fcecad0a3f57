package app

import (
	"context"

	"github.com/mercadillo/mercadillo/internal/config"
	"github.com/mercadillo/mercadillo/internal/domain/model"
	"github.com/mercadillo/mercadillo/internal/usecase"
)

// HealthChecker reports whether backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type StorefrontFacade struct {
	checkout *usecase.CheckoutUseCase
	webhooks *usecase.WebhookUseCase
	coupons  *usecase.CouponUseCase
	orders   *usecase.OrderUseCase
	health   HealthChecker
	cfg      *config.Config
}

func NewStorefrontFacade(
	checkout *usecase.CheckoutUseCase,
	webhooks *usecase.WebhookUseCase,
	coupons *usecase.CouponUseCase,
	orders *usecase.OrderUseCase,
	health HealthChecker,
	cfg *config.Config,
) *StorefrontFacade {
	return &StorefrontFacade{
		checkout: checkout,
		webhooks: webhooks,
		coupons:  coupons,
		orders:   orders,
		health:   health,
		cfg:      cfg,
	}
}

func (f *StorefrontFacade) CreatePreference(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutSession, error) {
	return f.checkout.CreatePreference(ctx, req)
}

func (f *StorefrontFacade) HandleWebhook(ctx context.Context, event model.WebhookEvent) (*model.WebhookResult, error) {
	return f.webhooks.HandleEvent(ctx, event)
}

func (f *StorefrontFacade) ValidateCoupon(ctx context.Context, code, userID string, subtotal float64) (*model.CouponValidation, error) {
	return f.coupons.Validate(ctx, code, userID, subtotal)
}

func (f *StorefrontFacade) RecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.ListRecent(ctx, limit)
}

func (f *StorefrontFacade) OrderByReference(ctx context.Context, reference string) (*model.Order, error) {
	return f.orders.GetByReference(ctx, reference)
}

func (f *StorefrontFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}

// PendingPayments returns orders whose payment has sat in pendiente longer than the sweeper threshold.
func (f *StorefrontFacade) PendingPayments(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.SelectStalePending(ctx, f.cfg.Sweeper.StaleAfter, limit)
}

func (f *StorefrontFacade) ResyncPayment(ctx context.Context, paymentID string) (*model.WebhookResult, error) {
	return f.webhooks.ReconcilePayment(ctx, paymentID)
}
