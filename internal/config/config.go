package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string        `env:"RUN_ADDRESS" envDefault:":8080"`
	DatabaseURI     string        `env:"DATABASE_URI"`
	PublicURL       string        `env:"PUBLIC_API_URL" envDefault:"http://localhost:8080"`
	StoreURL        string        `env:"STORE_URL" envDefault:"http://localhost:5173"`
	RedisURL        string        `env:"REDIS_URL"`
	AdminKeyHash    string        `env:"ADMIN_API_KEY_HASH"`
	HTTPTimeout     time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`

	MercadoPago MercadoPagoConfig
	Resend      ResendConfig
	Clerk       ClerkConfig
	Sweeper     SweeperConfig
}

// MercadoPagoConfig configures the payment provider client and webhook verification.
type MercadoPagoConfig struct {
	AccessToken      string        `env:"MERCADOPAGO_ACCESS_TOKEN"`
	APIURL           string        `env:"MERCADOPAGO_API_URL" envDefault:"https://api.mercadopago.com"`
	Currency         string        `env:"MERCADOPAGO_CURRENCY" envDefault:"ARS"`
	WebhookSecret    string        `env:"MERCADOPAGO_WEBHOOK_SECRET"`
	WebhookTolerance time.Duration `env:"MERCADOPAGO_WEBHOOK_TOLERANCE" envDefault:"0s"`
}

// ResendConfig configures transactional email delivery.
type ResendConfig struct {
	APIKey string `env:"RESEND_API_KEY"`
	APIURL string `env:"RESEND_API_URL" envDefault:"https://api.resend.com"`
	From   string `env:"EMAIL_FROM" envDefault:"Mercadillo <pedidos@mercadillo.app>"`
}

// ClerkConfig configures buyer lookups.
type ClerkConfig struct {
	SecretKey string `env:"CLERK_SECRET_KEY"`
	APIURL    string `env:"CLERK_API_URL" envDefault:"https://api.clerk.com"`
}

// SweeperConfig configures the background payment sweeper. A zero interval disables it.
type SweeperConfig struct {
	Interval   time.Duration `env:"SWEEP_INTERVAL" envDefault:"2m"`
	StaleAfter time.Duration `env:"SWEEP_STALE_AFTER" envDefault:"15m"`
	BatchSize  int           `env:"SWEEP_BATCH" envDefault:"32"`
	Workers    int           `env:"WORKER_POOL_SIZE" envDefault:"4"`
}

const (
	defaultHTTPTimeout     = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultStaleAfter      = 15 * time.Minute
	defaultSweepBatch      = 32
	defaultWorkerPoolSize  = 4
)

// Load parses configuration from environment variables and flags.
func Load() (*Config, error) {
	return load(os.Args[1:], nil)
}

// load reads environ instead of the process environment when it is not nil.
func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	fs := flag.NewFlagSet("mercadillo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sweepIntervalStr   = cfg.Sweeper.Interval.String()
		staleAfterStr      = cfg.Sweeper.StaleAfter.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.MercadoPago.AccessToken, "mp-token", cfg.MercadoPago.AccessToken, "MercadoPago access token")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "Public base URL of this API")
	fs.StringVar(&cfg.StoreURL, "store-url", cfg.StoreURL, "Storefront base URL")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between pending payment sweeps, 0 disables")
	fs.StringVar(&staleAfterStr, "sweep-stale-after", staleAfterStr, "Minimum age of a pending order before it is swept")
	fs.IntVar(&cfg.Sweeper.BatchSize, "sweep-batch", cfg.Sweeper.BatchSize, "Maximum orders per sweep")
	fs.IntVar(&cfg.Sweeper.Workers, "worker-pool", cfg.Sweeper.Workers, "Number of concurrent sweep workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.Sweeper.Interval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.Sweeper.StaleAfter, err = time.ParseDuration(staleAfterStr); err != nil {
		return nil, fmt.Errorf("invalid sweep stale after: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.Sweeper.Interval < 0 {
		cfg.Sweeper.Interval = 0
	}

	if cfg.Sweeper.StaleAfter <= 0 {
		cfg.Sweeper.StaleAfter = defaultStaleAfter
	}

	if cfg.Sweeper.BatchSize <= 0 {
		cfg.Sweeper.BatchSize = defaultSweepBatch
	}

	if cfg.Sweeper.Workers <= 0 {
		cfg.Sweeper.Workers = defaultWorkerPoolSize
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	cfg.StoreURL = strings.TrimRight(cfg.StoreURL, "/")

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.MercadoPago.AccessToken == "" {
		return nil, fmt.Errorf("mercadopago access token must be provided")
	}

	return cfg, nil
}
