package model

// PaymentStatus is the provider status of a payment.
type PaymentStatus string

const (
	PaymentStatusApproved   PaymentStatus = "approved"
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusInProcess  PaymentStatus = "in_process"
	PaymentStatusRejected   PaymentStatus = "rejected"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusChargeBack PaymentStatus = "charged_back"
)

// EventTypePayment is the only webhook type acted upon.
const EventTypePayment = "payment"

// Payment is the authoritative payment object fetched from the provider.
type Payment struct {
	ID                string
	Status            PaymentStatus
	StatusDetail      string
	PaymentType       string
	ExternalReference string
	TransactionAmount float64
}

// WebhookEvent is the notification delivered by the provider.
type WebhookEvent struct {
	Type      string
	Action    string
	PaymentID string
}
