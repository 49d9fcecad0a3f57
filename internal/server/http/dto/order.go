package dto

import (
	"time"

	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// OrderResponse is the admin view of an order.
type OrderResponse struct {
	ID                string           `json:"id"`
	UserID            string           `json:"user_id"`
	Items             []model.LineItem `json:"items"`
	Subtotal          float64          `json:"subtotal"`
	Discount          float64          `json:"descuento"`
	CouponCode        *string          `json:"cupon_codigo"`
	Total             float64          `json:"total"`
	Status            string           `json:"estado"`
	ShippingAddress   string           `json:"direccion_envio"`
	DeliveryMethod    string           `json:"metodo_entrega"`
	PaymentMethod     string           `json:"metodo_pago"`
	ExternalReference string           `json:"mercadopago_external_reference"`
	PreferenceID      string           `json:"mercadopago_preference_id,omitempty"`
	PaymentID         string           `json:"mercadopago_payment_id,omitempty"`
	PaymentStatus     string           `json:"mercadopago_status,omitempty"`
	PaymentDetail     string           `json:"mercadopago_status_detail,omitempty"`
	PaymentType       string           `json:"mercadopago_payment_type,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// NewOrderResponse maps order into response.
func NewOrderResponse(o model.Order) OrderResponse {
	items := o.Items
	if items == nil {
		items = []model.LineItem{}
	}
	return OrderResponse{
		ID:                o.ID,
		UserID:            o.UserID,
		Items:             items,
		Subtotal:          o.Subtotal,
		Discount:          o.Discount,
		CouponCode:        o.CouponCode,
		Total:             o.Total,
		Status:            string(o.Status),
		ShippingAddress:   o.ShippingAddress,
		DeliveryMethod:    o.DeliveryMethod,
		PaymentMethod:     o.PaymentMethod,
		ExternalReference: o.Payment.ExternalReference,
		PreferenceID:      o.Payment.PreferenceID,
		PaymentID:         o.Payment.PaymentID,
		PaymentStatus:     o.Payment.Status,
		PaymentDetail:     o.Payment.StatusDetail,
		PaymentType:       o.Payment.PaymentType,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}
