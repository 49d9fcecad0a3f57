package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/server/http/dto"
)

// WebhookHandler receives MercadoPago notifications.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Receive handles POST /api/mercadopago/webhook.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badJSON(c)
		return
	}

	var req dto.WebhookRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			badJSON(c)
			return
		}
	}
	req.ApplyQuery(c.Request.URL.Query())

	result, err := h.facade.HandleWebhook(c.Request.Context(), req.Event())
	if err != nil {
		if body, ok := validationFailure(err); ok {
			abortWithError(c, http.StatusBadRequest, body)
			return
		}
		failure := dto.ErrorResponse{Error: "webhook processing failed", Details: err.Error()}
		var pErr *domainErrors.ProviderError
		if errors.As(err, &pErr) {
			failure.Message = err.Error()
			failure.Details = pErr.Body
		}
		abortWithError(c, http.StatusInternalServerError, failure)
		return
	}

	c.JSON(http.StatusOK, dto.NewWebhookResponse(result))
}
