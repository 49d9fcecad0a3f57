package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mercadillo/mercadillo/internal/domain/model"
	testhelpers "github.com/mercadillo/mercadillo/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func pendingOrder(id, paymentID string) model.Order {
	return model.Order{ID: id, Status: model.OrderStatusPending, Payment: model.PaymentCorrelation{PaymentID: paymentID}}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewPaymentSweeperDefaults(t *testing.T) {
	sweeper := NewPaymentSweeper(&testhelpers.SweeperFacadeStub{}, time.Second, 0, 0, discardLogger())
	if sweeper.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", sweeper.batchSize)
	}
	if sweeper.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", sweeper.workers)
	}
	if !sweeper.Enabled() {
		t.Fatal("expected sweeper to be enabled")
	}
}

func TestPaymentSweeperResyncsPendingOrders(t *testing.T) {
	facade := &testhelpers.SweeperFacadeStub{Orders: [][]model.Order{
		{pendingOrder("o-1", "11"), pendingOrder("o-2", "12")},
		{pendingOrder("o-3", "13")},
	}}
	sweeper := NewPaymentSweeper(facade, 5*time.Millisecond, 2, 2, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	waitFor(t, time.Second, func() bool {
		facade.Lock()
		defer facade.Unlock()
		return len(facade.Resynced) == 3
	})
	sweeper.Stop()

	facade.Lock()
	defer facade.Unlock()
	seen := map[string]bool{}
	for _, id := range facade.Resynced {
		seen[id] = true
	}
	for _, id := range []string{"11", "12", "13"} {
		if !seen[id] {
			t.Fatalf("expected payment %s to be resynced, got %v", id, facade.Resynced)
		}
	}
}

func TestPaymentSweeperPassesBatchSize(t *testing.T) {
	limits := make(chan int, 1)
	facade := &testhelpers.SweeperFacadeStub{PendingFn: func(_ context.Context, limit int) ([]model.Order, error) {
		select {
		case limits <- limit:
		default:
		}
		return nil, nil
	}}
	sweeper := NewPaymentSweeper(facade, 5*time.Millisecond, 7, 1, discardLogger())
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	select {
	case limit := <-limits:
		if limit != 7 {
			t.Fatalf("expected limit 7, got %d", limit)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for pending payments query")
	}
}

func TestPaymentSweeperSurvivesErrors(t *testing.T) {
	calls := make(chan struct{}, 4)
	facade := &testhelpers.SweeperFacadeStub{
		PendingFn: func(context.Context, int) ([]model.Order, error) {
			select {
			case calls <- struct{}{}:
			default:
			}
			if len(calls) == 1 {
				return nil, errors.New("db down")
			}
			return []model.Order{pendingOrder("o-1", "11")}, nil
		},
		ResyncFn: func(context.Context, string) (*model.WebhookResult, error) {
			return nil, errors.New("provider down")
		},
	}
	sweeper := NewPaymentSweeper(facade, 5*time.Millisecond, 1, 1, discardLogger())
	sweeper.Start(context.Background())

	waitFor(t, time.Second, func() bool {
		facade.Lock()
		defer facade.Unlock()
		return len(facade.Resynced) > 0
	})
	sweeper.Stop()
}

func TestPaymentSweeperDisabled(t *testing.T) {
	facade := &testhelpers.SweeperFacadeStub{PendingFn: func(context.Context, int) ([]model.Order, error) {
		t.Error("disabled sweeper must not query")
		return nil, nil
	}}
	sweeper := NewPaymentSweeper(facade, 0, 1, 1, discardLogger())
	if sweeper.Enabled() {
		t.Fatal("expected sweeper to be disabled")
	}
	sweeper.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	sweeper.Stop()
}

func TestPaymentSweeperStopIsIdempotent(t *testing.T) {
	sweeper := NewPaymentSweeper(&testhelpers.SweeperFacadeStub{}, 5*time.Millisecond, 1, 1, discardLogger())
	sweeper.Stop()
	sweeper.Start(context.Background())
	sweeper.Stop()
	sweeper.Stop()
}
