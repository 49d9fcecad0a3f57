package mercadopago

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/mercadillo/mercadillo/internal/config"
	"github.com/mercadillo/mercadillo/internal/usecase"
)

// Module exposes the MercadoPago client as the payment gateway.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (usecase.PaymentGateway, error) {
	return NewHTTPClient(p.Config.MercadoPago, p.Config.HTTPTimeout, p.Logger)
}
