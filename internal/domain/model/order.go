package model

import "time"

// OrderStatus describes the application side lifecycle stored in estado.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pendiente"
	OrderStatusPaid       OrderStatus = "pagado"
	OrderStatusProcessing OrderStatus = "procesando"
	OrderStatusShipped    OrderStatus = "enviado"
	OrderStatusDelivered  OrderStatus = "entregado"
	OrderStatusCancelled  OrderStatus = "cancelado"
	OrderStatusFailed     OrderStatus = "fallido"
)

// PaymentMethodMercadoPago is stored in metodo_pago for checkout orders.
const PaymentMethodMercadoPago = "mercadopago"

// Order describes a purchase persisted by the checkout flow.
type Order struct {
	ID              string
	UserID          string
	Items           []LineItem
	Subtotal        float64
	Discount        float64
	CouponCode      *string
	Total           float64
	Status          OrderStatus
	ShippingAddress string
	DeliveryMethod  string
	PaymentMethod   string
	Payment         PaymentCorrelation
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PaymentCorrelation holds the payment provider identifiers attached to an order.
type PaymentCorrelation struct {
	ExternalReference string
	PreferenceID      string
	PaymentID         string
	Status            string
	StatusDetail      string
	PaymentType       string
}

// PaymentUpdate overwrites correlation fields and optionally advances estado.
type PaymentUpdate struct {
	PaymentID    string
	Status       string
	StatusDetail string
	PaymentType  string
	OrderStatus  *OrderStatus
}
