package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// NotificationUseCase sends order confirmation emails.
type NotificationUseCase struct {
	buyers BuyerDirectory
	mailer Mailer
	logger *slog.Logger
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(buyers BuyerDirectory, mailer Mailer, logger *slog.Logger) *NotificationUseCase {
	return &NotificationUseCase{buyers: buyers, mailer: mailer, logger: logger}
}

// SendOrderConfirmation emails the buyer of order. Failures are logged and reported, never returned.
func (u *NotificationUseCase) SendOrderConfirmation(ctx context.Context, order *model.Order) model.SideEffectResult {
	result := model.SideEffectResult{Name: model.SideEffectConfirmation}
	log := u.logger.With(slog.String("order_id", order.ID), slog.String("user_id", order.UserID))

	buyer, err := u.buyers.GetBuyer(ctx, order.UserID)
	if err != nil {
		log.WarnContext(ctx, "buyer lookup failed", slog.Any("error", err))
		result.Status = model.SideEffectFailed
		result.Reason = fmt.Sprintf("buyer lookup: %v", err)
		return result
	}
	if buyer.Email == "" {
		log.WarnContext(ctx, "buyer has no email address")
		result.Status = model.SideEffectSkipped
		result.Reason = "buyer has no email address"
		return result
	}

	coupon := ""
	if order.CouponCode != nil {
		coupon = *order.CouponCode
	}

	err = u.mailer.Send(ctx, model.Notification{
		To:      buyer.Email,
		Kind:    model.NotificationOrderConfirmation,
		Subject: fmt.Sprintf("Confirmación de tu pedido #%s", shortOrderID(order.ID)),
		Data: model.OrderConfirmation{
			CustomerName:    buyer.DisplayName(),
			OrderID:         order.ID,
			CreatedAt:       order.CreatedAt,
			Items:           order.Items,
			Subtotal:        order.Subtotal,
			Discount:        order.Discount,
			CouponCode:      coupon,
			Total:           order.Total,
			ShippingAddress: ParseShippingAddress(order.ShippingAddress),
			DeliveryMethod:  order.DeliveryMethod,
			PaymentID:       order.Payment.PaymentID,
		},
	})
	if err != nil {
		log.WarnContext(ctx, "confirmation email failed", slog.Any("error", err))
		result.Status = model.SideEffectFailed
		result.Reason = fmt.Sprintf("send email: %v", err)
		return result
	}

	log.InfoContext(ctx, "confirmation email sent")
	result.Status = model.SideEffectOK
	return result
}

// ParseShippingAddress decodes a stored address. Values that are not a JSON object become
// an address whose street is the raw value.
func ParseShippingAddress(raw string) model.ShippingAddress {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.ShippingAddress{}
	}
	var address model.ShippingAddress
	if err := json.Unmarshal([]byte(raw), &address); err != nil {
		return model.ShippingAddress{Street: raw}
	}
	return address
}

func shortOrderID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
