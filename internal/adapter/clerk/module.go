package clerk

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/mercadillo/mercadillo/internal/config"
	"github.com/mercadillo/mercadillo/internal/usecase"
)

// Module exposes the Clerk client as the buyer directory.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (usecase.BuyerDirectory, error) {
	return NewHTTPClient(p.Config.Clerk, p.Config.HTTPTimeout, p.Logger)
}
