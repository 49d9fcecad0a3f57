package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mercadillo/mercadillo/internal/server/http/dto"
)

// CouponHandler serves coupon validation.
type CouponHandler struct {
	facade CouponFacade
}

// NewCouponHandler constructs CouponHandler.
func NewCouponHandler(facade CouponFacade) *CouponHandler {
	return &CouponHandler{facade: facade}
}

// Validate handles POST /api/coupons/validate.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req dto.CouponValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}

	result, err := h.facade.ValidateCoupon(c.Request.Context(), req.Code, req.UserID, req.Subtotal)
	if err != nil {
		if body, ok := validationFailure(err); ok {
			abortWithError(c, http.StatusBadRequest, body)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.CouponValidateResponse{
		Valid:    result.Valid,
		CouponID: result.CouponID,
		Code:     result.Code,
		Discount: result.Discount,
		Message:  result.Reason,
	})
}
