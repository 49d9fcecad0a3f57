package dto

import (
	"net/url"

	"github.com/mercadillo/mercadillo/internal/domain/model"
)

// WebhookRequest is the MercadoPago notification body.
type WebhookRequest struct {
	Type   string      `json:"type"`
	Action string      `json:"action,omitempty"`
	Data   WebhookData `json:"data"`
}

// WebhookData carries the resource identifier; id arrives as string or number.
type WebhookData struct {
	ID     model.FlexibleID `json:"id"`
	Action string           `json:"action,omitempty"`
}

// ApplyQuery fills type and id from IPN style query parameters when the body lacks them.
func (r *WebhookRequest) ApplyQuery(q url.Values) {
	if r.Type == "" {
		r.Type = q.Get("type")
	}
	if r.Type == "" {
		r.Type = q.Get("topic")
	}
	if r.Data.ID == "" {
		r.Data.ID = model.FlexibleID(q.Get("data.id"))
	}
	if r.Data.ID == "" {
		r.Data.ID = model.FlexibleID(q.Get("id"))
	}
}

// Event converts the notification into a webhook event.
func (r WebhookRequest) Event() model.WebhookEvent {
	action := r.Action
	if action == "" {
		action = r.Data.Action
	}
	return model.WebhookEvent{Type: r.Type, Action: action, PaymentID: r.Data.ID.String()}
}

// WebhookResponse acknowledges a notification.
type WebhookResponse struct {
	Received    bool                     `json:"received"`
	Outcome     model.WebhookOutcome     `json:"outcome,omitempty"`
	OrderID     string                   `json:"order_id,omitempty"`
	Note        string                   `json:"note,omitempty"`
	SideEffects []model.SideEffectResult `json:"side_effects"`
}

// NewWebhookResponse maps reconciliation result into response.
func NewWebhookResponse(result *model.WebhookResult) WebhookResponse {
	resp := WebhookResponse{Received: true, SideEffects: []model.SideEffectResult{}}
	if result == nil {
		return resp
	}
	resp.Outcome = result.Outcome
	resp.OrderID = result.OrderID
	resp.Note = result.Note
	if len(result.SideEffects) > 0 {
		resp.SideEffects = result.SideEffects
	}
	return resp
}
