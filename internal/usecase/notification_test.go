package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mercadillo/mercadillo/internal/domain/model"
	testhelpers "github.com/mercadillo/mercadillo/internal/test"
)

func confirmedOrder() *model.Order {
	code := "VERANO10"
	return &model.Order{
		ID:              "4f9c2a1e-aaaa-4000-8000-000000000001",
		UserID:          "u1",
		Items:           []model.LineItem{{ID: "1", Title: "Mate", UnitPrice: 100, Quantity: 1}},
		Subtotal:        100,
		Discount:        10,
		CouponCode:      &code,
		Total:           90,
		ShippingAddress: `{"street":"Rivera 1234","city":"Montevideo"}`,
		DeliveryMethod:  "envio",
		Payment:         model.PaymentCorrelation{PaymentID: "123"},
		CreatedAt:       time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSendOrderConfirmation(t *testing.T) {
	mailer := &testhelpers.MailerStub{}
	buyers := testhelpers.BuyerDirectoryStub{Buyers: map[string]*model.Buyer{
		"u1": {ID: "u1", Email: "ana@example.com", FirstName: "Ana", LastName: "Paz"},
	}}

	result := NewNotificationUseCase(buyers, mailer, discardLogger()).SendOrderConfirmation(context.Background(), confirmedOrder())
	if result.Status != model.SideEffectOK {
		t.Fatalf("unexpected result %+v", result)
	}
	if mailer.Count() != 1 {
		t.Fatalf("expected one email, got %d", mailer.Count())
	}

	sent := mailer.Sent[0]
	if sent.To != "ana@example.com" || sent.Kind != model.NotificationOrderConfirmation {
		t.Fatalf("unexpected notification %+v", sent)
	}
	if sent.Subject != "Confirmación de tu pedido #4F9C2A1E" {
		t.Fatalf("unexpected subject %q", sent.Subject)
	}
	data, ok := sent.Data.(model.OrderConfirmation)
	if !ok {
		t.Fatalf("unexpected payload type %T", sent.Data)
	}
	if data.CustomerName != "Ana Paz" || data.CouponCode != "VERANO10" || data.Total != 90 || data.PaymentID != "123" {
		t.Fatalf("unexpected payload %+v", data)
	}
	if data.ShippingAddress.Street != "Rivera 1234" || data.ShippingAddress.City != "Montevideo" {
		t.Fatalf("unexpected address %+v", data.ShippingAddress)
	}
}

func TestSendOrderConfirmationFailures(t *testing.T) {
	buyers := testhelpers.BuyerDirectoryStub{Buyers: map[string]*model.Buyer{"u1": {ID: "u1", Email: "ana@example.com"}}}

	cases := []struct {
		name   string
		buyers BuyerDirectory
		mailer *testhelpers.MailerStub
		status model.SideEffectStatus
		sent   int
	}{
		{"buyer lookup fails", testhelpers.BuyerDirectoryStub{Err: errors.New("clerk down")}, &testhelpers.MailerStub{}, model.SideEffectFailed, 0},
		{"buyer without email", testhelpers.BuyerDirectoryStub{Buyers: map[string]*model.Buyer{"u1": {ID: "u1"}}}, &testhelpers.MailerStub{}, model.SideEffectSkipped, 0},
		{"mailer fails", buyers, &testhelpers.MailerStub{Err: errors.New("resend 422")}, model.SideEffectFailed, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := NewNotificationUseCase(tc.buyers, tc.mailer, discardLogger()).SendOrderConfirmation(context.Background(), confirmedOrder())
			if result.Status != tc.status || result.Reason == "" {
				t.Fatalf("expected %s with reason, got %+v", tc.status, result)
			}
			if tc.mailer.Count() != tc.sent {
				t.Fatalf("expected %d emails, got %d", tc.sent, tc.mailer.Count())
			}
		})
	}
}

func TestParseShippingAddress(t *testing.T) {
	cases := []struct {
		raw  string
		want model.ShippingAddress
	}{
		{`{"street":"Rivera 1234","city":"Montevideo","postal_code":"11200"}`, model.ShippingAddress{Street: "Rivera 1234", City: "Montevideo", PostalCode: "11200"}},
		{"Rivera 1234, Montevideo", model.ShippingAddress{Street: "Rivera 1234, Montevideo"}},
		{"", model.ShippingAddress{}},
	}

	for _, tc := range cases {
		if got := ParseShippingAddress(tc.raw); got != tc.want {
			t.Fatalf("ParseShippingAddress(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}
