package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// CheckoutFacadeStub provides controllable behaviour for preference creation.
type CheckoutFacadeStub struct {
	CreateFn func(context.Context, model.CheckoutRequest) (*model.CheckoutSession, error)
}

// CreatePreference delegates to provided function or returns a default session.
func (s CheckoutFacadeStub) CreatePreference(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutSession, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &model.CheckoutSession{
		Preference: model.Preference{
			ID:               "pref-1",
			InitPoint:        "https://www.mercadopago.com/checkout?pref_id=pref-1",
			SandboxInitPoint: "https://sandbox.mercadopago.com/checkout?pref_id=pref-1",
		},
		ExternalReference: "order_1_abcdef12|e30=",
		ReferenceID:       "order_1_abcdef12",
	}, nil
}

// WebhookFacadeStub simulates webhook reconciliation.
type WebhookFacadeStub struct {
	HandleFn func(context.Context, model.WebhookEvent) (*model.WebhookResult, error)
}

// HandleWebhook delegates to provided function or reports an ignored event.
func (s WebhookFacadeStub) HandleWebhook(ctx context.Context, event model.WebhookEvent) (*model.WebhookResult, error) {
	if s.HandleFn != nil {
		return s.HandleFn(ctx, event)
	}
	return &model.WebhookResult{Outcome: model.WebhookOutcomeIgnored}, nil
}

// CouponFacadeStub simulates coupon validation.
type CouponFacadeStub struct {
	ValidateFn func(context.Context, string, string, float64) (*model.CouponValidation, error)
}

// ValidateCoupon delegates to provided function or accepts the coupon.
func (s CouponFacadeStub) ValidateCoupon(ctx context.Context, code, userID string, subtotal float64) (*model.CouponValidation, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, code, userID, subtotal)
	}
	return &model.CouponValidation{Valid: true, CouponID: 1, Code: code, Discount: 10}, nil
}

// AdminFacadeStub simulates admin order queries.
type AdminFacadeStub struct {
	RecentFn      func(context.Context, int) ([]model.Order, error)
	ByReferenceFn func(context.Context, string) (*model.Order, error)
}

// RecentOrders returns configured orders.
func (s AdminFacadeStub) RecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if s.RecentFn != nil {
		return s.RecentFn(ctx, limit)
	}
	return []model.Order{{ID: "o-1", Status: model.OrderStatusPaid}}, nil
}

// OrderByReference returns configured order for reference.
func (s AdminFacadeStub) OrderByReference(ctx context.Context, ref string) (*model.Order, error) {
	if s.ByReferenceFn != nil {
		return s.ByReferenceFn(ctx, ref)
	}
	return &model.Order{ID: "o-1", Payment: model.PaymentCorrelation{ExternalReference: ref}}, nil
}

// HealthFacadeStub reports a configured health status.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// StorefrontFacadeStub combines the handler facing stubs.
type StorefrontFacadeStub struct {
	CheckoutFacadeStub
	WebhookFacadeStub
	CouponFacadeStub
	AdminFacadeStub
	HealthFacadeStub
}

// SweeperFacadeStub mimics sweeper interactions with the storefront facade.
type SweeperFacadeStub struct {
	Orders           [][]model.Order
	PendingFn        func(context.Context, int) ([]model.Order, error)
	ResyncFn         func(context.Context, string) (*model.WebhookResult, error)
	Resynced         []string
	mu               sync.Mutex
	pendingCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SweeperFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweeperFacadeStub) Unlock() { s.mu.Unlock() }

// PendingPayments returns batches from configured queue.
func (s *SweeperFacadeStub) PendingPayments(ctx context.Context, limit int) ([]model.Order, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.pendingCallCount, 1)
	if int(call) <= len(s.Orders) {
		return s.Orders[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ResyncPayment records resync requests.
func (s *SweeperFacadeStub) ResyncPayment(ctx context.Context, paymentID string) (*model.WebhookResult, error) {
	s.mu.Lock()
	s.Resynced = append(s.Resynced, paymentID)
	s.mu.Unlock()
	if s.ResyncFn != nil {
		return s.ResyncFn(ctx, paymentID)
	}
	return &model.WebhookResult{Outcome: model.WebhookOutcomeUpdated}, nil
}
