package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// SweeperFacade exposes the subset of application functionality required by the sweeper.
type SweeperFacade interface {
	PendingPayments(ctx context.Context, limit int) ([]model.Order, error)
	ResyncPayment(ctx context.Context, paymentID string) (*model.WebhookResult, error)
}

// PaymentSweeper periodically re-runs reconciliation for orders stuck in pendiente.
type PaymentSweeper struct {
	facade    SweeperFacade
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentSweeper constructs sweeper worker pool. A zero interval disables it.
func NewPaymentSweeper(facade SweeperFacade, interval time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentSweeper{
		facade:    facade,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan model.Order, batchSize*workers),
	}
}

// Enabled reports whether the sweeper runs at all.
func (p *PaymentSweeper) Enabled() bool {
	return p.interval > 0
}

// Start launches background processing.
func (p *PaymentSweeper) Start(ctx context.Context) {
	if !p.Enabled() {
		p.logger.Info("payment sweeper disabled")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentSweeper) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentSweeper) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentSweeper) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.PendingPayments(ctx, p.batchSize)
	if err != nil {
		p.logger.ErrorContext(ctx, "fetch pending payments failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *PaymentSweeper) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.resync(ctx, order)
		}
	}
}

func (p *PaymentSweeper) resync(ctx context.Context, order model.Order) {
	log := p.logger.With(slog.String("order_id", order.ID), slog.String("payment_id", order.Payment.PaymentID))

	result, err := p.facade.ResyncPayment(ctx, order.Payment.PaymentID)
	if err != nil {
		log.ErrorContext(ctx, "payment resync failed", slog.String("error", err.Error()))
		return
	}
	log.InfoContext(ctx, "payment resynced", slog.String("outcome", string(result.Outcome)))
}
