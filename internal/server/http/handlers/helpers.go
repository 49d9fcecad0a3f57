package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/server/http/dto"
)

func abortWithError(c *gin.Context, status int, body dto.ErrorResponse) {
	c.AbortWithStatusJSON(status, body)
}

// validationFailure maps input errors to a 400 body; ok is false for other errors.
func validationFailure(err error) (dto.ErrorResponse, bool) {
	var vErr *domainErrors.ValidationError
	if errors.As(err, &vErr) {
		return dto.ErrorResponse{Error: vErr.Message, Field: vErr.Field}, true
	}
	if errors.Is(err, domainErrors.ErrInvalidCheckout) || errors.Is(err, domainErrors.ErrInvalidCoupon) {
		return dto.ErrorResponse{Error: err.Error()}, true
	}
	return dto.ErrorResponse{}, false
}

func badJSON(c *gin.Context) {
	abortWithError(c, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid JSON body"})
}
