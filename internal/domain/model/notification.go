package model

import "time"

// Buyer is the identity-provider view of a user.
type Buyer struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// DisplayName returns the buyer's full name or an empty string.
func (b Buyer) DisplayName() string {
	switch {
	case b.FirstName != "" && b.LastName != "":
		return b.FirstName + " " + b.LastName
	case b.FirstName != "":
		return b.FirstName
	default:
		return b.LastName
	}
}

// NotificationKind names an email template.
type NotificationKind string

const NotificationOrderConfirmation NotificationKind = "order_confirmation"

// Notification is a transactional email request.
type Notification struct {
	To      string
	Kind    NotificationKind
	Subject string
	Data    any
}

// OrderConfirmation is the template payload of an order confirmation email.
type OrderConfirmation struct {
	CustomerName    string
	OrderID         string
	CreatedAt       time.Time
	Items           []LineItem
	Subtotal        float64
	Discount        float64
	CouponCode      string
	Total           float64
	ShippingAddress ShippingAddress
	DeliveryMethod  string
	PaymentID       string
}
