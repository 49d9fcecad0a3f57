package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/server/http/dto"
)

// CheckoutHandler manages preference creation.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// CreatePreference handles POST /api/mercadopago/create-preference.
func (h *CheckoutHandler) CreatePreference(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	session, err := h.facade.CreatePreference(c.Request.Context(), req.ToModel())
	if err != nil {
		if body, ok := validationFailure(err); ok {
			abortWithError(c, http.StatusBadRequest, body)
			return
		}

		body := dto.ErrorResponse{Error: "failed to create payment preference", Message: err.Error()}
		var pErr *domainErrors.ProviderError
		if errors.As(err, &pErr) {
			body.Details = pErr.Body
		}
		abortWithError(c, http.StatusInternalServerError, body)
		return
	}

	c.JSON(http.StatusOK, dto.NewCheckoutResponse(session))
}
