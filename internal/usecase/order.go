package usecase

import (
	"context"
	"time"

	"github.com/mercadillo/mercadillo/internal/domain/model"
	"github.com/mercadillo/mercadillo/internal/domain/repository"
)

const (
	DefaultOrderListLimit = 50
	MaxOrderListLimit     = 200
)

// OrderUseCase exposes read access to orders.
type OrderUseCase struct {
	orders repository.OrderRepository
	now    func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, now: time.Now}
}

// ListRecent returns the newest orders first. Out of range limits are clamped.
func (u *OrderUseCase) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = DefaultOrderListLimit
	}
	if limit > MaxOrderListLimit {
		limit = MaxOrderListLimit
	}
	return u.orders.ListRecent(ctx, limit)
}

// GetByReference returns the order stored for an external reference id.
func (u *OrderUseCase) GetByReference(ctx context.Context, referenceID string) (*model.Order, error) {
	return u.orders.GetByExternalReference(ctx, referenceID)
}

// SelectStalePending returns pending orders with a payment id untouched for staleAfter.
func (u *OrderUseCase) SelectStalePending(ctx context.Context, staleAfter time.Duration, limit int) ([]model.Order, error) {
	return u.orders.SelectStalePending(ctx, u.now().Add(-staleAfter), limit)
}
