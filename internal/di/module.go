package di

import (
	"github.com/mercadillo/mercadillo/internal/adapter/clerk"
	"github.com/mercadillo/mercadillo/internal/adapter/mercadopago"
	"github.com/mercadillo/mercadillo/internal/adapter/resend"
	"github.com/mercadillo/mercadillo/internal/app"
	"github.com/mercadillo/mercadillo/internal/config"
	"github.com/mercadillo/mercadillo/internal/logger"
	"github.com/mercadillo/mercadillo/internal/pkg/auth"
	"github.com/mercadillo/mercadillo/internal/pkg/lock"
	"github.com/mercadillo/mercadillo/internal/server/http/router"
	"github.com/mercadillo/mercadillo/internal/storage/postgres"
	"github.com/mercadillo/mercadillo/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		mercadopago.Module,
		clerk.Module,
		resend.Module,
		lock.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
