package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/mercadillo/mercadillo/internal/domain/model"
	testhelpers "github.com/mercadillo/mercadillo/internal/test"
)

func TestOrderUseCaseListRecentClampsLimit(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := testhelpers.NewOrderRepositoryStub()
	for i := 0; i < 3; i++ {
		order := &model.Order{ID: string(rune('a' + i)), Payment: model.PaymentCorrelation{ExternalReference: string(rune('a' + i))}}
		repo.Now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		if _, _, err := repo.CreateFromCheckout(context.Background(), order); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	uc := NewOrderUseCase(repo)

	orders, err := uc.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 3 || orders[0].ID != "c" {
		t.Fatalf("expected newest first, got %+v", orders)
	}

	orders, err = uc.ListRecent(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(orders))
	}
}

type limitRecorder struct {
	*testhelpers.OrderRepositoryStub
	limit     int
	olderThan time.Time
}

func (r *limitRecorder) ListRecent(_ context.Context, limit int) ([]model.Order, error) {
	r.limit = limit
	return nil, nil
}

func (r *limitRecorder) SelectStalePending(_ context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	r.olderThan = olderThan
	r.limit = limit
	return nil, nil
}

func TestOrderUseCaseLimitBounds(t *testing.T) {
	cases := map[int]int{-1: DefaultOrderListLimit, 0: DefaultOrderListLimit, 10: 10, 1000: MaxOrderListLimit}

	for requested, want := range cases {
		repo := &limitRecorder{OrderRepositoryStub: testhelpers.NewOrderRepositoryStub()}
		if _, err := NewOrderUseCase(repo).ListRecent(context.Background(), requested); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.limit != want {
			t.Fatalf("limit %d: expected %d, got %d", requested, want, repo.limit)
		}
	}
}

func TestOrderUseCaseSelectStalePending(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := &limitRecorder{OrderRepositoryStub: testhelpers.NewOrderRepositoryStub()}
	uc := NewOrderUseCase(repo)
	uc.now = func() time.Time { return now }

	if _, err := uc.SelectStalePending(context.Background(), 15*time.Minute, 32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.olderThan.Equal(now.Add(-15*time.Minute)) || repo.limit != 32 {
		t.Fatalf("unexpected arguments %v %d", repo.olderThan, repo.limit)
	}
}

func TestOrderUseCaseGetByReference(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub(&model.Order{ID: "o-1", Payment: model.PaymentCorrelation{ExternalReference: "order_1_x"}})

	order, err := NewOrderUseCase(repo).GetByReference(context.Background(), "order_1_x")
	if err != nil || order.ID != "o-1" {
		t.Fatalf("unexpected result %+v %v", order, err)
	}
}
