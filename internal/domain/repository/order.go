package repository

import (
	"context"
	"time"

	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// CreateFromCheckout inserts order unless one already exists for its external reference.
	// The boolean result is true when a new row was written.
	CreateFromCheckout(ctx context.Context, order *model.Order) (*model.Order, bool, error)
	GetByExternalReference(ctx context.Context, reference string) (*model.Order, error)
	UpdatePayment(ctx context.Context, orderID string, update model.PaymentUpdate) (*model.Order, error)
	ListRecent(ctx context.Context, limit int) ([]model.Order, error)
	SelectStalePending(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error)
}
