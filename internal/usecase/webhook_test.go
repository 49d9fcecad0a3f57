package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/domain/model"
	"github.com/mercadillo/mercadillo/internal/domain/repository"
	testhelpers "github.com/mercadillo/mercadillo/internal/test"
)

type webhookFixture struct {
	payments *testhelpers.PaymentGatewayStub
	orders   *testhelpers.OrderRepositoryStub
	coupons  *testhelpers.CouponRepositoryStub
	buyers   testhelpers.BuyerDirectoryStub
	mailer   *testhelpers.MailerStub
	locker   *testhelpers.LockerStub
}

func newWebhookFixture() *webhookFixture {
	return &webhookFixture{
		payments: &testhelpers.PaymentGatewayStub{Payments: map[string]*model.Payment{}},
		orders:   testhelpers.NewOrderRepositoryStub(),
		coupons:  testhelpers.NewCouponRepositoryStub(),
		buyers: testhelpers.BuyerDirectoryStub{Buyers: map[string]*model.Buyer{
			"u1": {ID: "u1", Email: "ana@example.com", FirstName: "Ana", LastName: "Paz"},
		}},
		mailer: &testhelpers.MailerStub{},
		locker: &testhelpers.LockerStub{},
	}
}

func (f *webhookFixture) useCase(orders ...repository.OrderRepository) *WebhookUseCase {
	var repo repository.OrderRepository = f.orders
	if len(orders) > 0 {
		repo = orders[0]
	}
	logger := discardLogger()
	uc := NewWebhookUseCase(
		f.payments,
		repo,
		f.locker,
		NewCouponUseCase(f.coupons, logger),
		NewNotificationUseCase(f.buyers, f.mailer, logger),
		logger,
	)
	uc.newOrderID = func() string { return "4f9c2a1e-0000-4000-8000-000000000001" }
	return uc
}

func sideEffect(t *testing.T, result *model.WebhookResult, name string) model.SideEffectResult {
	t.Helper()
	for _, se := range result.SideEffects {
		if se.Name == name {
			return se
		}
	}
	t.Fatalf("side effect %s not reported in %+v", name, result.SideEffects)
	return model.SideEffectResult{}
}

func TestWebhookCreatesOrderForApprovedPayment(t *testing.T) {
	f := newWebhookFixture()
	f.payments.Payments["123"] = &model.Payment{
		ID:                "123",
		Status:            model.PaymentStatusApproved,
		StatusDetail:      "accredited",
		PaymentType:       "credit_card",
		ExternalReference: externalReference(t, "order_171_abc", pendingOrder()),
		TransactionAmount: 49.90,
	}

	result, err := f.useCase().HandleEvent(context.Background(), model.WebhookEvent{Type: "payment", PaymentID: "123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != model.WebhookOutcomeCreated {
		t.Fatalf("expected created outcome, got %s", result.Outcome)
	}
	if f.orders.Count() != 1 {
		t.Fatalf("expected one order, got %d", f.orders.Count())
	}

	order, err := f.orders.GetByExternalReference(context.Background(), "order_171_abc")
	if err != nil {
		t.Fatalf("order not stored: %v", err)
	}
	if order.Status != model.OrderStatusPaid {
		t.Fatalf("expected estado pagado, got %s", order.Status)
	}
	if order.Total != 49.9 {
		t.Fatalf("expected total 49.9, got %v", order.Total)
	}
	if order.Payment.PaymentID != "123" || order.Payment.Status != "approved" ||
		order.Payment.StatusDetail != "accredited" || order.Payment.PaymentType != "credit_card" {
		t.Fatalf("correlation fields not copied from payment: %+v", order.Payment)
	}
	if order.PaymentMethod != model.PaymentMethodMercadoPago {
		t.Fatalf("unexpected payment method %q", order.PaymentMethod)
	}
	if order.ShippingAddress == "" || order.UserID != "u1" || len(order.Items) != 1 {
		t.Fatalf("order not populated from token: %+v", order)
	}

	if se := sideEffect(t, result, model.SideEffectCouponUsage); se.Status != model.SideEffectSkipped {
		t.Fatalf("expected coupon step skipped, got %+v", se)
	}
	if se := sideEffect(t, result, model.SideEffectConfirmation); se.Status != model.SideEffectOK {
		t.Fatalf("expected confirmation sent, got %+v", se)
	}
	if f.mailer.Count() != 1 {
		t.Fatalf("expected one email, got %d", f.mailer.Count())
	}
	if len(f.locker.Acquired) != 1 || f.locker.Acquired[0] != "webhook:reference:order_171_abc" || f.locker.Released != 1 {
		t.Fatalf("expected reference lock to be acquired and released, got %+v", f.locker)
	}
}

func TestWebhookSecondDeliveryOnlyUpdates(t *testing.T) {
	f := newWebhookFixture()
	f.payments.Payments["123"] = &model.Payment{
		ID:                "123",
		Status:            model.PaymentStatusApproved,
		ExternalReference: externalReference(t, "order_171_abc", pendingOrder()),
	}
	uc := f.useCase()
	event := model.WebhookEvent{Type: "payment", PaymentID: "123"}

	if _, err := uc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	result, err := uc.HandleEvent(context.Background(), event)
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}

	if result.Outcome != model.WebhookOutcomeUpdated {
		t.Fatalf("expected updated outcome, got %s", result.Outcome)
	}
	if f.orders.Count() != 1 || f.orders.Creates != 1 {
		t.Fatalf("expected a single order, got count=%d creates=%d", f.orders.Count(), f.orders.Creates)
	}
	if len(f.orders.Updates) != 1 || f.orders.Updates[0].PaymentID != "123" {
		t.Fatalf("expected correlation update, got %+v", f.orders.Updates)
	}
	if se := sideEffect(t, result, model.SideEffectCouponUsage); se.Status != model.SideEffectSkipped {
		t.Fatalf("coupon step must not re-run on update, got %+v", se)
	}
}

func TestWebhookNotApprovedWithoutOrderCreatesNothing(t *testing.T) {
	f := newWebhookFixture()
	f.payments.Payments["55"] = &model.Payment{
		ID:                "55",
		Status:            model.PaymentStatusPending,
		ExternalReference: externalReference(t, "order_1_aaaa", pendingOrder()),
	}

	result, err := f.useCase().HandleEvent(context.Background(), model.WebhookEvent{Type: "payment", PaymentID: "55"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != model.WebhookOutcomeSkipped || result.Note == "" {
		t.Fatalf("expected skipped outcome with note, got %+v", result)
	}
	if f.orders.Count() != 0 {
		t.Fatalf("expected no order, got %d", f.orders.Count())
	}
	if f.mailer.Count() != 0 {
		t.Fatalf("expected no email")
	}
}

func TestWebhookUndecodableReferenceIsNotAnError(t *testing.T) {
	cases := map[string]string{
		"no payload":      "order_1_bbbb",
		"corrupt payload": "order_1_bbbb|%%%not-base64",
		"empty reference": "",
	}

	for name, external := range cases {
		t.Run(name, func(t *testing.T) {
			f := newWebhookFixture()
			f.payments.Payments["9"] = &model.Payment{ID: "9", Status: model.PaymentStatusApproved, ExternalReference: external}

			result, err := f.useCase().ReconcilePayment(context.Background(), "9")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Outcome != model.WebhookOutcomeSkipped {
				t.Fatalf("expected skipped, got %s", result.Outcome)
			}
			if f.orders.Count() != 0 {
				t.Fatalf("expected no order to be created")
			}
		})
	}
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	f := newWebhookFixture()

	result, err := f.useCase().HandleEvent(context.Background(), model.WebhookEvent{Type: "merchant_order", PaymentID: "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != model.WebhookOutcomeIgnored {
		t.Fatalf("expected ignored outcome, got %s", result.Outcome)
	}
	if len(f.payments.PaymentLookups) != 0 {
		t.Fatalf("payment must not be fetched for ignored events")
	}
}

func TestWebhookRequiresPaymentID(t *testing.T) {
	f := newWebhookFixture()

	_, err := f.useCase().HandleEvent(context.Background(), model.WebhookEvent{Type: "payment"})
	var validationErr *domainErrors.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "data.id" {
		t.Fatalf("expected data.id validation error, got %v", err)
	}
}

func TestWebhookRejectsNonNumericPaymentID(t *testing.T) {
	for _, id := range []string{"../../users/me", "123/refunds", "12a", "123456789012345678901"} {
		t.Run(id, func(t *testing.T) {
			f := newWebhookFixture()

			_, err := f.useCase().HandleEvent(context.Background(), model.WebhookEvent{Type: "payment", PaymentID: id})
			var validationErr *domainErrors.ValidationError
			if !errors.As(err, &validationErr) || validationErr.Field != "data.id" {
				t.Fatalf("expected data.id validation error, got %v", err)
			}
			if len(f.payments.PaymentLookups) != 0 {
				t.Fatalf("payment must not be fetched, got %v", f.payments.PaymentLookups)
			}
		})
	}
}

func TestWebhookPaymentFetchFailure(t *testing.T) {
	f := newWebhookFixture()

	_, err := f.useCase().HandleEvent(context.Background(), model.WebhookEvent{Type: "payment", PaymentID: "404"})
	if !errors.Is(err, domainErrors.ErrPaymentProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestWebhookPersistenceFailures(t *testing.T) {
	boom := errors.New("connection refused")

	cases := []struct {
		name    string
		prepare func(*webhookFixture)
	}{
		{"lookup", func(f *webhookFixture) { f.orders.LookupErr = boom }},
		{"insert", func(f *webhookFixture) { f.orders.CreateErr = boom }},
		{"update", func(f *webhookFixture) {
			f.orders.ByReference["order_171_abc"] = &model.Order{ID: "o-1", Status: model.OrderStatusPending}
			f.orders.UpdateErr = boom
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newWebhookFixture()
			f.payments.Payments["123"] = &model.Payment{
				ID:                "123",
				Status:            model.PaymentStatusApproved,
				ExternalReference: externalReference(t, "order_171_abc", pendingOrder()),
			}
			tc.prepare(f)

			_, err := f.useCase().ReconcilePayment(context.Background(), "123")
			if !errors.Is(err, domainErrors.ErrPersistence) || !errors.Is(err, boom) {
				t.Fatalf("expected persistence error wrapping cause, got %v", err)
			}
		})
	}
}

func TestWebhookRegistersCouponUsage(t *testing.T) {
	f := newWebhookFixture()
	f.coupons = testhelpers.NewCouponRepositoryStub(model.Coupon{ID: 7, Code: "VERANO10", Active: true})

	code := "VERANO10"
	token := pendingOrder()
	token.Subtotal = 55.44
	token.Discount = 5.54
	token.CouponCode = &code
	f.payments.Payments["123"] = &model.Payment{
		ID:                "123",
		Status:            model.PaymentStatusApproved,
		ExternalReference: externalReference(t, "order_171_abc", token),
	}

	result, err := f.useCase().ReconcilePayment(context.Background(), "123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if se := sideEffect(t, result, model.SideEffectCouponUsage); se.Status != model.SideEffectOK {
		t.Fatalf("expected coupon usage ok, got %+v", se)
	}

	usages := f.coupons.Recorded()
	if len(usages) != 1 {
		t.Fatalf("expected one usage, got %d", len(usages))
	}
	if usages[0].CouponID != 7 || usages[0].UserID != "u1" || usages[0].OrderID != result.OrderID || usages[0].DiscountAmount != 5.54 {
		t.Fatalf("unexpected usage %+v", usages[0])
	}
}

func TestWebhookRegistersAppliedDiscountWhenCouponExceedsSubtotal(t *testing.T) {
	f := newWebhookFixture()
	f.coupons = testhelpers.NewCouponRepositoryStub(model.Coupon{ID: 7, Code: "REGALO", Active: true})

	code := "REGALO"
	token := pendingOrder()
	token.Subtotal = 49.9
	token.Discount = 80
	token.Total = 0
	token.CouponCode = &code
	f.payments.Payments["123"] = &model.Payment{
		ID:                "123",
		Status:            model.PaymentStatusApproved,
		ExternalReference: externalReference(t, "order_171_abc", token),
	}

	if _, err := f.useCase().ReconcilePayment(context.Background(), "123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	usages := f.coupons.Recorded()
	if len(usages) != 1 {
		t.Fatalf("expected one usage, got %d", len(usages))
	}
	if usages[0].DiscountAmount != 49.9 {
		t.Fatalf("expected applied discount 49.9, got %v", usages[0].DiscountAmount)
	}
}

func TestWebhookCouponFailureDoesNotFailDelivery(t *testing.T) {
	f := newWebhookFixture()

	code := "MISSING"
	token := pendingOrder()
	token.Discount = 5
	token.Total = 44.9
	token.CouponCode = &code
	f.payments.Payments["123"] = &model.Payment{
		ID:                "123",
		Status:            model.PaymentStatusApproved,
		ExternalReference: externalReference(t, "order_171_abc", token),
	}

	result, err := f.useCase().ReconcilePayment(context.Background(), "123")
	if err != nil {
		t.Fatalf("coupon failure must not surface, got %v", err)
	}
	if result.Outcome != model.WebhookOutcomeCreated {
		t.Fatalf("expected created outcome, got %s", result.Outcome)
	}
	se := sideEffect(t, result, model.SideEffectCouponUsage)
	if se.Status != model.SideEffectFailed || se.Reason == "" {
		t.Fatalf("expected failed coupon step with reason, got %+v", se)
	}
}

func TestWebhookBuyerLookupFailureSendsNoEmail(t *testing.T) {
	f := newWebhookFixture()
	f.buyers = testhelpers.BuyerDirectoryStub{Err: errors.New("clerk unavailable")}
	f.payments.Payments["123"] = &model.Payment{
		ID:                "123",
		Status:            model.PaymentStatusApproved,
		ExternalReference: externalReference(t, "order_171_abc", pendingOrder()),
	}

	result, err := f.useCase().ReconcilePayment(context.Background(), "123")
	if err != nil {
		t.Fatalf("buyer lookup failure must not surface, got %v", err)
	}
	if f.mailer.Count() != 0 {
		t.Fatalf("expected no email to be sent")
	}
	if se := sideEffect(t, result, model.SideEffectConfirmation); se.Status != model.SideEffectFailed {
		t.Fatalf("expected failed confirmation step, got %+v", se)
	}
}

func TestWebhookUpdateMapsProviderStatus(t *testing.T) {
	cases := []struct {
		status model.PaymentStatus
		want   model.OrderStatus
	}{
		{model.PaymentStatusApproved, model.OrderStatusPaid},
		{model.PaymentStatusPending, model.OrderStatusPending},
		{model.PaymentStatusRejected, model.OrderStatusCancelled},
		{model.PaymentStatusInProcess, model.OrderStatusProcessing},
		{model.PaymentStatusRefunded, model.OrderStatusProcessing},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			f := newWebhookFixture()
			f.orders.ByReference["order_9_cafe"] = &model.Order{
				ID:      "o-9",
				UserID:  "u1",
				Status:  model.OrderStatusProcessing,
				Payment: model.PaymentCorrelation{ExternalReference: "order_9_cafe"},
			}
			f.payments.Payments["77"] = &model.Payment{
				ID:                "77",
				Status:            tc.status,
				StatusDetail:      "detail",
				PaymentType:       "account_money",
				ExternalReference: "order_9_cafe",
			}

			result, err := f.useCase().ReconcilePayment(context.Background(), "77")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Outcome != model.WebhookOutcomeUpdated || result.OrderID != "o-9" {
				t.Fatalf("unexpected result %+v", result)
			}

			order, _ := f.orders.GetByExternalReference(context.Background(), "order_9_cafe")
			if order.Status != tc.want {
				t.Fatalf("expected estado %s, got %s", tc.want, order.Status)
			}
			if order.Payment.PaymentID != "77" || order.Payment.Status != string(tc.status) || order.Payment.PaymentType != "account_money" {
				t.Fatalf("correlation fields not overwritten: %+v", order.Payment)
			}
		})
	}
}

type racingOrderRepository struct {
	*testhelpers.OrderRepositoryStub
}

func (racingOrderRepository) GetByExternalReference(context.Context, string) (*model.Order, error) {
	return nil, domainErrors.ErrNotFound
}

func TestWebhookInsertConflictFallsBackToUpdate(t *testing.T) {
	f := newWebhookFixture()
	f.orders.ByReference["order_171_abc"] = &model.Order{
		ID:      "existing",
		UserID:  "u1",
		Status:  model.OrderStatusPending,
		Payment: model.PaymentCorrelation{ExternalReference: "order_171_abc"},
	}
	f.payments.Payments["123"] = &model.Payment{
		ID:                "123",
		Status:            model.PaymentStatusApproved,
		ExternalReference: externalReference(t, "order_171_abc", pendingOrder()),
	}

	result, err := f.useCase(racingOrderRepository{f.orders}).ReconcilePayment(context.Background(), "123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != model.WebhookOutcomeUpdated || result.OrderID != "existing" {
		t.Fatalf("expected update of existing order, got %+v", result)
	}
	if f.orders.Count() != 1 {
		t.Fatalf("expected a single order, got %d", f.orders.Count())
	}
}

func TestWebhookProceedsWhenLockUnavailable(t *testing.T) {
	f := newWebhookFixture()
	f.locker.Err = domainErrors.ErrLockNotAcquired
	f.payments.Payments["123"] = &model.Payment{
		ID:                "123",
		Status:            model.PaymentStatusApproved,
		ExternalReference: externalReference(t, "order_171_abc", pendingOrder()),
	}

	result, err := f.useCase().ReconcilePayment(context.Background(), "123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != model.WebhookOutcomeCreated {
		t.Fatalf("expected created outcome, got %s", result.Outcome)
	}
}
