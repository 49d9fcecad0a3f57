package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mercadillo/mercadillo/internal/config"
	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/domain/model"
	"github.com/mercadillo/mercadillo/internal/pkg/reference"
)

const (
	preferenceTTL   = 30 * time.Minute
	webhookPath     = "/api/mercadopago/webhook"
	checkoutBaseURL = "/checkout/"
)

// CheckoutUseCase opens payment provider checkout sessions for carts.
type CheckoutUseCase struct {
	payments  PaymentGateway
	storeURL  string
	publicURL string
	logger    *slog.Logger
	now       func() time.Time
	newRefID  func(time.Time) string
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(payments PaymentGateway, cfg *config.Config, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		payments:  payments,
		storeURL:  strings.TrimRight(cfg.StoreURL, "/"),
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		logger:    logger,
		now:       time.Now,
		newRefID:  reference.NewID,
	}
}

// CreatePreference validates req, packs the pending order into the external reference and
// creates a provider preference. Nothing is persisted.
func (u *CheckoutUseCase) CreatePreference(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutSession, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	totals := ComputeTotals(req.Items, req.Discount)

	token := model.PendingOrder{
		UserID:          req.UserID,
		Items:           req.Items,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		Total:           totals.Total,
		ShippingAddress: *req.ShippingAddress,
		DeliveryMethod:  req.DeliveryMethod,
		Payer:           req.Payer,
		CreatedAt:       now,
	}
	if code := strings.TrimSpace(req.CouponCode); code != "" {
		token.CouponCode = &code
	}

	refID := u.newRefID(now)
	external, err := reference.Encode(refID, token)
	if err != nil {
		return nil, err
	}

	pref, err := u.payments.CreatePreference(ctx, model.PreferenceRequest{
		Items:             ScaleLinePrices(req.Items, totals),
		Payer:             req.Payer,
		BackURLs:          u.backURLs(req.BackURLs),
		NotificationURL:   u.notificationURL(req.NotificationURL),
		ExternalReference: external,
		ExpiresFrom:       now,
		ExpiresTo:         now.Add(preferenceTTL),
	})
	if err != nil {
		u.logger.ErrorContext(ctx, "create preference failed",
			slog.String("reference_id", refID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("create preference: %w", err)
	}

	u.logger.InfoContext(ctx, "preference created",
		slog.String("reference_id", refID),
		slog.String("preference_id", pref.ID),
		slog.Float64("total", totals.Total),
	)

	return &model.CheckoutSession{
		Preference:        *pref,
		ExternalReference: external,
		ReferenceID:       refID,
		Totals:            totals,
	}, nil
}

func (u *CheckoutUseCase) backURLs(custom *model.BackURLs) model.BackURLs {
	urls := model.BackURLs{
		Success: u.storeURL + checkoutBaseURL + "success",
		Failure: u.storeURL + checkoutBaseURL + "failure",
		Pending: u.storeURL + checkoutBaseURL + "pending",
	}
	if custom == nil {
		return urls
	}
	if custom.Success != "" {
		urls.Success = custom.Success
	}
	if custom.Failure != "" {
		urls.Failure = custom.Failure
	}
	if custom.Pending != "" {
		urls.Pending = custom.Pending
	}
	return urls
}

func (u *CheckoutUseCase) notificationURL(custom string) string {
	if custom != "" {
		return custom
	}
	return u.publicURL + webhookPath
}

func validateCheckout(req model.CheckoutRequest) error {
	if len(req.Items) == 0 {
		return domainErrors.NewValidationError("items", "at least one item is required")
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return domainErrors.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be greater than zero")
		}
		if item.UnitPrice <= 0 {
			return domainErrors.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "must be greater than zero")
		}
	}
	if strings.TrimSpace(req.Payer.Email) == "" {
		return domainErrors.NewValidationError("payer.email", "is required")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return domainErrors.NewValidationError("user_id", "is required")
	}
	if req.ShippingAddress == nil {
		return domainErrors.NewValidationError("shipping_address", "is required")
	}
	if req.Discount < 0 {
		return domainErrors.NewValidationError("descuento", "must not be negative")
	}
	return nil
}
