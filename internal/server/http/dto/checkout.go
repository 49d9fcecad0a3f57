package dto

import (
	"bytes"
	"encoding/json"

	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// CheckoutRequest describes the create-preference payload sent by the storefront.
type CheckoutRequest struct {
	Items           []model.LineItem      `json:"items"`
	Payer           model.Payer           `json:"payer"`
	BackURLs        *model.BackURLs       `json:"back_urls,omitempty"`
	NotificationURL string                `json:"notification_url,omitempty"`
	ShippingAddress *ShippingAddressInput `json:"shipping_address"`
	UserID          string                `json:"user_id"`
	Discount        float64               `json:"descuento,omitempty"`
	CouponCode      string                `json:"cupon_codigo,omitempty"`
	DeliveryMethod  string                `json:"delivery_method,omitempty"`
}

// ShippingAddressInput accepts either an address object or a single free-form line.
type ShippingAddressInput struct {
	model.ShippingAddress
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ShippingAddressInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var line string
		if err := json.Unmarshal(trimmed, &line); err != nil {
			return err
		}
		s.ShippingAddress = model.ShippingAddress{Street: line}
		return nil
	}
	return json.Unmarshal(trimmed, &s.ShippingAddress)
}

// ToModel converts payload into the checkout input.
func (r CheckoutRequest) ToModel() model.CheckoutRequest {
	req := model.CheckoutRequest{
		UserID:          r.UserID,
		Items:           r.Items,
		Payer:           r.Payer,
		DeliveryMethod:  r.DeliveryMethod,
		Discount:        r.Discount,
		CouponCode:      r.CouponCode,
		BackURLs:        r.BackURLs,
		NotificationURL: r.NotificationURL,
	}
	if r.ShippingAddress != nil {
		addr := r.ShippingAddress.ShippingAddress
		req.ShippingAddress = &addr
	}
	return req
}

// CheckoutResponse is returned after the preference has been opened.
type CheckoutResponse struct {
	ID                string  `json:"id"`
	InitPoint         string  `json:"init_point"`
	SandboxInitPoint  string  `json:"sandbox_init_point"`
	PreferenceID      string  `json:"preference_id"`
	ExternalReference string  `json:"external_reference"`
	Subtotal          float64 `json:"subtotal"`
	Discount          float64 `json:"descuento"`
	Total             float64 `json:"total"`
}

// NewCheckoutResponse maps session into response.
func NewCheckoutResponse(session *model.CheckoutSession) CheckoutResponse {
	return CheckoutResponse{
		ID:                session.ID,
		InitPoint:         session.InitPoint,
		SandboxInitPoint:  session.SandboxInitPoint,
		PreferenceID:      session.ID,
		ExternalReference: session.ExternalReference,
		Subtotal:          session.Totals.Subtotal,
		Discount:          session.Totals.Discount,
		Total:             session.Totals.Total,
	}
}
