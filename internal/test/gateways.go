package test

import (
	"context"
	"sync"

	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// PaymentGatewayStub serves payments from memory and records preference requests.
type PaymentGatewayStub struct {
	Payments       map[string]*model.Payment
	PaymentErr     error
	PreferenceFn   func(context.Context, model.PreferenceRequest) (*model.Preference, error)
	Preferences    []model.PreferenceRequest
	PaymentLookups []string

	mu sync.Mutex
}

// CreatePreference records req and returns a default preference.
func (s *PaymentGatewayStub) CreatePreference(ctx context.Context, req model.PreferenceRequest) (*model.Preference, error) {
	s.mu.Lock()
	s.Preferences = append(s.Preferences, req)
	s.mu.Unlock()
	if s.PreferenceFn != nil {
		return s.PreferenceFn(ctx, req)
	}
	return &model.Preference{ID: "pref-1", InitPoint: "https://mp/init", SandboxInitPoint: "https://mp/sandbox"}, nil
}

// GetPayment returns configured payment.
func (s *PaymentGatewayStub) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PaymentLookups = append(s.PaymentLookups, paymentID)
	if s.PaymentErr != nil {
		return nil, s.PaymentErr
	}
	if p, ok := s.Payments[paymentID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, &domainErrors.ProviderError{Provider: "mercadopago", StatusCode: 404, Body: `{"message":"Payment not found"}`}
}

// BuyerDirectoryStub resolves buyers from memory.
type BuyerDirectoryStub struct {
	Buyers map[string]*model.Buyer
	Err    error
}

// GetBuyer returns configured buyer or not found.
func (s BuyerDirectoryStub) GetBuyer(ctx context.Context, userID string) (*model.Buyer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if b, ok := s.Buyers[userID]; ok {
		return b, nil
	}
	return nil, domainErrors.ErrNotFound
}

// MailerStub records sent notifications.
type MailerStub struct {
	Err  error
	Sent []model.Notification

	mu sync.Mutex
}

// Send records notification unless stub has explicit error.
func (s *MailerStub) Send(ctx context.Context, notification model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, notification)
	return nil
}

// Count returns the number of sent notifications.
func (s *MailerStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Sent)
}

// LockerStub is an in-process Locker that counts acquisitions.
type LockerStub struct {
	Err      error
	Acquired []string
	Released int

	mu sync.Mutex
}

// Acquire records key and returns a release callback.
func (s *LockerStub) Acquire(ctx context.Context, key string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Acquired = append(s.Acquired, key)
	return func() {
		s.mu.Lock()
		s.Released++
		s.mu.Unlock()
	}, nil
}
