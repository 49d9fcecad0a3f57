package model

import "time"

// Payer identifies the buyer towards the payment provider.
type Payer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// ShippingAddress is the delivery destination captured at checkout.
type ShippingAddress struct {
	FullName   string `json:"full_name,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// BackURLs are the storefront pages the provider redirects to.
type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// CheckoutRequest is the input of preference creation.
type CheckoutRequest struct {
	UserID          string
	Items           []LineItem
	Payer           Payer
	ShippingAddress *ShippingAddress
	DeliveryMethod  string
	Discount        float64
	CouponCode      string
	BackURLs        *BackURLs
	NotificationURL string
}

// Totals are the computed cart amounts.
type Totals struct {
	Subtotal float64
	Discount float64
	Total    float64
}

// PendingOrder is the order intent carried inside the external reference.
type PendingOrder struct {
	UserID          string          `json:"user_id"`
	Items           []LineItem      `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	Discount        float64         `json:"descuento"`
	CouponCode      *string         `json:"cupon_codigo"`
	Total           float64         `json:"total"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	DeliveryMethod  string          `json:"delivery_method,omitempty"`
	Payer           Payer           `json:"payer"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PreferenceRequest is sent to the payment provider to open a checkout session.
type PreferenceRequest struct {
	Items             []LineItem
	Payer             Payer
	BackURLs          BackURLs
	NotificationURL   string
	ExternalReference string
	ExpiresFrom       time.Time
	ExpiresTo         time.Time
}

// Preference is the provider checkout session.
type Preference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

// CheckoutSession is returned to the storefront after preference creation.
type CheckoutSession struct {
	Preference
	ExternalReference string
	ReferenceID       string
	Totals            Totals
}
