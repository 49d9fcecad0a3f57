package usecase

import (
	"context"

	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// PaymentGateway is the payment provider API used by the checkout and webhook flows.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, req model.PreferenceRequest) (*model.Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*model.Payment, error)
}

// BuyerDirectory resolves buyers by id.
type BuyerDirectory interface {
	GetBuyer(ctx context.Context, userID string) (*model.Buyer, error)
}

// Mailer delivers transactional emails.
type Mailer interface {
	Send(ctx context.Context, notification model.Notification) error
}

// Locker serializes work on a key across processes.
// The returned function releases the lock and is safe to call once.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}
