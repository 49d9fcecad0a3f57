package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	pkgAuth "github.com/mercadillo/mercadillo/internal/pkg/auth"
	"github.com/mercadillo/mercadillo/internal/server/http/handlers"
	"github.com/mercadillo/mercadillo/internal/server/http/middleware"
)

// Params lists router dependencies.
type Params struct {
	fx.In

	Facade    handlers.StorefrontFacade
	Logger    *slog.Logger
	AdminKey  pkgAuth.KeyVerifier
	Signature pkgAuth.SignatureVerifier
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.DecompressRequest(middleware.DefaultMaxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	checkoutHandler := handlers.NewCheckoutHandler(p.Facade)
	webhookHandler := handlers.NewWebhookHandler(p.Facade)
	couponHandler := handlers.NewCouponHandler(p.Facade)
	adminHandler := handlers.NewAdminHandler(p.Facade)
	healthHandler := handlers.NewHealthHandler(p.Facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	mp := api.Group("/mercadopago")
	mp.POST("/create-preference", checkoutHandler.CreatePreference)
	mp.POST("/webhook", middleware.WebhookSignature(p.Signature, p.Logger), webhookHandler.Receive)

	api.POST("/coupons/validate", couponHandler.Validate)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired(p.AdminKey))
	admin.GET("/orders", adminHandler.List)
	admin.GET("/orders/:reference", adminHandler.Get)

	return engine
}
