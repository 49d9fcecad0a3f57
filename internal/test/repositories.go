package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// OrderRepositoryStub stores orders in-memory keyed by external reference.
type OrderRepositoryStub struct {
	ByReference map[string]*model.Order
	Err         error
	LookupErr   error
	CreateErr   error
	UpdateErr   error
	Now         func() time.Time

	Creates int
	Updates []model.PaymentUpdate

	mu sync.Mutex
}

// NewOrderRepositoryStub constructs stub repository with initialized storage.
func NewOrderRepositoryStub(orders ...*model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{ByReference: make(map[string]*model.Order)}
	for _, o := range orders {
		s.ByReference[o.Payment.ExternalReference] = o
	}
	return s
}

func (s *OrderRepositoryStub) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateFromCheckout inserts order unless its reference already exists.
func (s *OrderRepositoryStub) CreateFromCheckout(ctx context.Context, order *model.Order) (*model.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := firstErr(s.Err, s.CreateErr); err != nil {
		return nil, false, err
	}
	if s.ByReference == nil {
		s.ByReference = make(map[string]*model.Order)
	}
	if existing, ok := s.ByReference[order.Payment.ExternalReference]; ok {
		copied := *existing
		return &copied, false, nil
	}
	stored := *order
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.ByReference[order.Payment.ExternalReference] = &stored
	s.Creates++
	copied := stored
	return &copied, true, nil
}

// GetByExternalReference returns stored order or not found.
func (s *OrderRepositoryStub) GetByExternalReference(ctx context.Context, reference string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := firstErr(s.Err, s.LookupErr); err != nil {
		return nil, err
	}
	if order, ok := s.ByReference[reference]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdatePayment applies update to the order with orderID.
func (s *OrderRepositoryStub) UpdatePayment(ctx context.Context, orderID string, update model.PaymentUpdate) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := firstErr(s.Err, s.UpdateErr); err != nil {
		return nil, err
	}
	for _, order := range s.ByReference {
		if order.ID != orderID {
			continue
		}
		order.Payment.PaymentID = update.PaymentID
		order.Payment.Status = update.Status
		order.Payment.StatusDetail = update.StatusDetail
		order.Payment.PaymentType = update.PaymentType
		if update.OrderStatus != nil {
			order.Status = *update.OrderStatus
		}
		order.UpdatedAt = s.now()
		s.Updates = append(s.Updates, update)
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListRecent returns orders newest first.
func (s *OrderRepositoryStub) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	orders := make([]model.Order, 0, len(s.ByReference))
	for _, o := range s.ByReference {
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// SelectStalePending returns pending orders with a payment id updated before olderThan.
func (s *OrderRepositoryStub) SelectStalePending(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var orders []model.Order
	for _, o := range s.ByReference {
		if o.Status == model.OrderStatusPending && o.Payment.PaymentID != "" && o.UpdatedAt.Before(olderThan) {
			orders = append(orders, *o)
		}
	}
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// Count returns the number of stored orders.
func (s *OrderRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ByReference)
}

// CouponRepositoryStub keeps coupons and usages in memory.
type CouponRepositoryStub struct {
	Coupons    map[string]*model.Coupon
	Usages     []model.CouponUsage
	Err        error
	LookupErr  error
	RecordErr  error
	UsageCount map[int64]int

	mu sync.Mutex
}

// NewCouponRepositoryStub constructs stub repository with provided coupons.
func NewCouponRepositoryStub(coupons ...model.Coupon) *CouponRepositoryStub {
	s := &CouponRepositoryStub{Coupons: make(map[string]*model.Coupon)}
	for i := range coupons {
		c := coupons[i]
		s.Coupons[strings.ToUpper(c.Code)] = &c
	}
	return s
}

// GetByCode finds coupon case-insensitively.
func (s *CouponRepositoryStub) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := firstErr(s.Err, s.LookupErr); err != nil {
		return nil, err
	}
	if c, ok := s.Coupons[strings.ToUpper(code)]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CountUsages returns recorded usages plus the configured baseline.
func (s *CouponRepositoryStub) CountUsages(ctx context.Context, couponID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	count := s.UsageCount[couponID]
	for _, u := range s.Usages {
		if u.CouponID == couponID {
			count++
		}
	}
	return count, nil
}

// CountUserUsages returns recorded usages of userID.
func (s *CouponRepositoryStub) CountUserUsages(ctx context.Context, couponID int64, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	count := 0
	for _, u := range s.Usages {
		if u.CouponID == couponID && u.UserID == userID {
			count++
		}
	}
	return count, nil
}

// RecordUsage stores usage unless stub has explicit error.
func (s *CouponRepositoryStub) RecordUsage(ctx context.Context, usage model.CouponUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := firstErr(s.Err, s.RecordErr); err != nil {
		return err
	}
	s.Usages = append(s.Usages, usage)
	return nil
}

// Recorded returns a snapshot of recorded usages.
func (s *CouponRepositoryStub) Recorded() []model.CouponUsage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CouponUsage(nil), s.Usages...)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
