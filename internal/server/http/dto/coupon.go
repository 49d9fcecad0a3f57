package dto

// CouponValidateRequest asks whether a coupon applies to a cart.
type CouponValidateRequest struct {
	Code     string  `json:"code"`
	UserID   string  `json:"user_id"`
	Subtotal float64 `json:"subtotal"`
}

// CouponValidateResponse reports validation outcome.
type CouponValidateResponse struct {
	Valid    bool    `json:"valid"`
	CouponID int64   `json:"coupon_id,omitempty"`
	Code     string  `json:"code,omitempty"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message,omitempty"`
}
