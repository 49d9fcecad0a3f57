package model

// WebhookOutcome summarises what a webhook delivery did to the order store.
type WebhookOutcome string

const (
	WebhookOutcomeCreated WebhookOutcome = "created"
	WebhookOutcomeUpdated WebhookOutcome = "updated"
	WebhookOutcomeSkipped WebhookOutcome = "skipped"
	WebhookOutcomeIgnored WebhookOutcome = "ignored"
)

// SideEffectStatus reports a best-effort step.
type SideEffectStatus string

const (
	SideEffectOK      SideEffectStatus = "ok"
	SideEffectFailed  SideEffectStatus = "failed"
	SideEffectSkipped SideEffectStatus = "skipped"
)

// Names of the post-creation steps.
const (
	SideEffectCouponUsage  = "coupon_usage"
	SideEffectConfirmation = "confirmation_email"
)

// SideEffectResult is the result of a single post-creation step.
type SideEffectResult struct {
	Name   string           `json:"name"`
	Status SideEffectStatus `json:"status"`
	Reason string           `json:"reason,omitempty"`
}

// WebhookResult is returned by the reconciler.
type WebhookResult struct {
	Outcome     WebhookOutcome
	OrderID     string
	Note        string
	SideEffects []SideEffectResult
}

// OrderStatusForPayment maps a provider status to estado.
// The second result is false when estado must stay untouched.
func OrderStatusForPayment(status PaymentStatus) (OrderStatus, bool) {
	switch status {
	case PaymentStatusApproved:
		return OrderStatusPaid, true
	case PaymentStatusPending:
		return OrderStatusPending, true
	case PaymentStatusRejected:
		return OrderStatusCancelled, true
	default:
		return "", false
	}
}
