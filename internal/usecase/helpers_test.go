package usecase

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mercadillo/mercadillo/internal/domain/model"
	"github.com/mercadillo/mercadillo/internal/pkg/reference"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingOrder() model.PendingOrder {
	return model.PendingOrder{
		UserID:   "u1",
		Items:    []model.LineItem{{ID: "p1", Title: "Mate", UnitPrice: 49.9, Quantity: 1}},
		Subtotal: 49.9,
		Total:    49.9,
		ShippingAddress: model.ShippingAddress{
			FullName: "Ana Paz",
			Street:   "Rivera 1234",
			City:     "Montevideo",
		},
		DeliveryMethod: "envio",
		Payer:          model.Payer{Name: "Ana Paz", Email: "ana@example.com"},
		CreatedAt:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func externalReference(t *testing.T, id string, token model.PendingOrder) string {
	t.Helper()
	external, err := reference.Encode(id, token)
	if err != nil {
		t.Fatalf("encode reference: %v", err)
	}
	return external
}
