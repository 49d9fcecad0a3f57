package resend

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/mercadillo/mercadillo/internal/config"
	"github.com/mercadillo/mercadillo/internal/usecase"
)

// Module exposes the Resend client as the mailer.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (usecase.Mailer, error) {
	return NewHTTPClient(p.Config.Resend, p.Config.HTTPTimeout, p.Logger)
}
