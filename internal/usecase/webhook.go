package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/domain/model"
	"github.com/mercadillo/mercadillo/internal/domain/repository"
	"github.com/mercadillo/mercadillo/internal/pkg/reference"
)

const referenceLockPrefix = "webhook:reference:"

// WebhookUseCase reconciles payment notifications with stored orders.
type WebhookUseCase struct {
	payments      PaymentGateway
	orders        repository.OrderRepository
	locker        Locker
	coupons       *CouponUseCase
	notifications *NotificationUseCase
	logger        *slog.Logger
	newOrderID    func() string
}

// NewWebhookUseCase constructs WebhookUseCase.
func NewWebhookUseCase(
	payments PaymentGateway,
	orders repository.OrderRepository,
	locker Locker,
	coupons *CouponUseCase,
	notifications *NotificationUseCase,
	logger *slog.Logger,
) *WebhookUseCase {
	return &WebhookUseCase{
		payments:      payments,
		orders:        orders,
		locker:        locker,
		coupons:       coupons,
		notifications: notifications,
		logger:        logger,
		newOrderID:    uuid.NewString,
	}
}

// HandleEvent acts on payment notifications and acknowledges every other type.
func (u *WebhookUseCase) HandleEvent(ctx context.Context, event model.WebhookEvent) (*model.WebhookResult, error) {
	if event.Type != model.EventTypePayment {
		u.logger.DebugContext(ctx, "webhook event ignored", slog.String("type", event.Type))
		return &model.WebhookResult{Outcome: model.WebhookOutcomeIgnored, Note: "event type not handled"}, nil
	}
	paymentID := strings.TrimSpace(event.PaymentID)
	if paymentID == "" {
		return nil, domainErrors.NewValidationError("data.id", "is required")
	}
	if !isNumericID(paymentID) {
		u.logger.WarnContext(ctx, "webhook payment id rejected", slog.String("payment_id", paymentID))
		return nil, domainErrors.NewValidationError("data.id", "must be numeric")
	}
	return u.ReconcilePayment(ctx, paymentID)
}

// MercadoPago payment ids are decimal integers.
func isNumericID(id string) bool {
	if len(id) > 20 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ReconcilePayment fetches paymentID from the provider and creates or updates its order.
// Errors are returned only when the payment fetch or the order write fails.
func (u *WebhookUseCase) ReconcilePayment(ctx context.Context, paymentID string) (*model.WebhookResult, error) {
	log := u.logger.With(slog.String("payment_id", paymentID))

	payment, err := u.payments.GetPayment(ctx, paymentID)
	if err != nil {
		log.ErrorContext(ctx, "fetch payment failed", slog.Any("error", err))
		return nil, fmt.Errorf("fetch payment %s: %w", paymentID, err)
	}
	log = log.With(slog.String("status", string(payment.Status)))

	ref, decodeErr := reference.Decode(payment.ExternalReference)
	if decodeErr != nil {
		log.WarnContext(ctx, "external reference carries no order data",
			slog.String("external_reference", ref.ID),
			slog.Any("error", decodeErr),
		)
	}
	if ref.ID == "" {
		log.WarnContext(ctx, "payment has no external reference")
		return &model.WebhookResult{Outcome: model.WebhookOutcomeSkipped, Note: "payment has no external reference"}, nil
	}
	log = log.With(slog.String("reference_id", ref.ID))

	release, err := u.locker.Acquire(ctx, referenceLockPrefix+ref.ID)
	if err != nil {
		log.WarnContext(ctx, "reference lock unavailable, continuing without it", slog.Any("error", err))
		release = func() {}
	}
	defer release()

	existing, err := u.orders.GetByExternalReference(ctx, ref.ID)
	switch {
	case err == nil:
		return u.updateExisting(ctx, log, existing, payment)
	case !errors.Is(err, domainErrors.ErrNotFound):
		log.ErrorContext(ctx, "order lookup failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: lookup order: %w", domainErrors.ErrPersistence, err)
	}

	if ref.Token == nil {
		log.WarnContext(ctx, "no order and no pending order data, nothing to reconcile")
		return &model.WebhookResult{Outcome: model.WebhookOutcomeSkipped, Note: "no pending order data for reference"}, nil
	}
	if payment.Status != model.PaymentStatusApproved {
		log.WarnContext(ctx, "payment not approved, order not created")
		return &model.WebhookResult{Outcome: model.WebhookOutcomeSkipped, Note: "payment not approved; no order created"}, nil
	}

	return u.createFromToken(ctx, log, ref, payment)
}

func (u *WebhookUseCase) createFromToken(ctx context.Context, log *slog.Logger, ref reference.Reference, payment *model.Payment) (*model.WebhookResult, error) {
	order, err := buildOrder(u.newOrderID(), ref, payment)
	if err != nil {
		return nil, err
	}

	stored, inserted, err := u.orders.CreateFromCheckout(ctx, order)
	if err != nil {
		log.ErrorContext(ctx, "order insert failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: create order: %w", domainErrors.ErrPersistence, err)
	}
	if !inserted {
		log.InfoContext(ctx, "order created concurrently, updating instead")
		return u.updateExisting(ctx, log, stored, payment)
	}

	log.InfoContext(ctx, "order created", slog.String("order_id", stored.ID))

	token := ref.Token
	result := &model.WebhookResult{Outcome: model.WebhookOutcomeCreated, OrderID: stored.ID}
	if applied := AppliedDiscount(*token); token.CouponCode != nil && *token.CouponCode != "" && applied > 0 {
		result.SideEffects = append(result.SideEffects,
			u.coupons.RegisterUsage(ctx, *token.CouponCode, token.UserID, stored.ID, applied))
	} else {
		result.SideEffects = append(result.SideEffects, skipped(model.SideEffectCouponUsage, "no coupon applied"))
	}
	result.SideEffects = append(result.SideEffects, u.notifications.SendOrderConfirmation(ctx, stored))
	return result, nil
}

func (u *WebhookUseCase) updateExisting(ctx context.Context, log *slog.Logger, existing *model.Order, payment *model.Payment) (*model.WebhookResult, error) {
	update := model.PaymentUpdate{
		PaymentID:    payment.ID,
		Status:       string(payment.Status),
		StatusDetail: payment.StatusDetail,
		PaymentType:  payment.PaymentType,
	}
	if status, ok := model.OrderStatusForPayment(payment.Status); ok {
		update.OrderStatus = &status
	}

	updated, err := u.orders.UpdatePayment(ctx, existing.ID, update)
	if err != nil {
		log.ErrorContext(ctx, "order update failed", slog.String("order_id", existing.ID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: update order: %w", domainErrors.ErrPersistence, err)
	}

	log.InfoContext(ctx, "order payment updated", slog.String("order_id", updated.ID), slog.String("estado", string(updated.Status)))

	result := &model.WebhookResult{
		Outcome:     model.WebhookOutcomeUpdated,
		OrderID:     updated.ID,
		SideEffects: []model.SideEffectResult{skipped(model.SideEffectCouponUsage, "order already existed")},
	}
	if payment.Status == model.PaymentStatusApproved {
		result.SideEffects = append(result.SideEffects, u.notifications.SendOrderConfirmation(ctx, updated))
	} else {
		result.SideEffects = append(result.SideEffects, skipped(model.SideEffectConfirmation, "payment not approved"))
	}
	return result, nil
}

func buildOrder(id string, ref reference.Reference, payment *model.Payment) (*model.Order, error) {
	token := ref.Token
	address, err := json.Marshal(token.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("marshal shipping address: %w", err)
	}

	return &model.Order{
		ID:              id,
		UserID:          token.UserID,
		Items:           token.Items,
		Subtotal:        token.Subtotal,
		Discount:        token.Discount,
		CouponCode:      token.CouponCode,
		Total:           token.Total,
		Status:          model.OrderStatusPaid,
		ShippingAddress: string(address),
		DeliveryMethod:  token.DeliveryMethod,
		PaymentMethod:   model.PaymentMethodMercadoPago,
		Payment: model.PaymentCorrelation{
			ExternalReference: ref.ID,
			PaymentID:         payment.ID,
			Status:            string(payment.Status),
			StatusDetail:      payment.StatusDetail,
			PaymentType:       payment.PaymentType,
		},
	}, nil
}

func skipped(name, reason string) model.SideEffectResult {
	return model.SideEffectResult{Name: name, Status: model.SideEffectSkipped, Reason: reason}
}
