package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mercadillo/mercadillo/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Orders returns the order repository.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

// Coupons returns the coupon repository.
func (s *Storage) Coupons() repository.CouponRepository {
	return &couponRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            user_id TEXT NOT NULL,
            items JSONB NOT NULL DEFAULT '[]'::jsonb,
            subtotal NUMERIC(12,2) NOT NULL DEFAULT 0,
            descuento NUMERIC(12,2) NOT NULL DEFAULT 0,
            cupon_codigo TEXT,
            total NUMERIC(12,2) NOT NULL DEFAULT 0,
            estado TEXT NOT NULL DEFAULT 'pendiente',
            direccion_envio TEXT NOT NULL DEFAULT '',
            metodo_entrega TEXT NOT NULL DEFAULT '',
            metodo_pago TEXT NOT NULL DEFAULT 'mercadopago',
            mercadopago_external_reference TEXT UNIQUE,
            mercadopago_preference_id TEXT NOT NULL DEFAULT '',
            mercadopago_payment_id TEXT NOT NULL DEFAULT '',
            mercadopago_status TEXT NOT NULL DEFAULT '',
            mercadopago_status_detail TEXT NOT NULL DEFAULT '',
            mercadopago_payment_type TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cupones (
            id BIGSERIAL PRIMARY KEY,
            codigo TEXT NOT NULL,
            tipo_descuento TEXT NOT NULL,
            valor NUMERIC(12,2) NOT NULL,
            monto_minimo NUMERIC(12,2) NOT NULL DEFAULT 0,
            usos_maximos INTEGER,
            usos_por_usuario INTEGER,
            activo BOOLEAN NOT NULL DEFAULT TRUE,
            fecha_inicio TIMESTAMPTZ,
            fecha_expiracion TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cupones_uso (
            id BIGSERIAL PRIMARY KEY,
            cupon_id BIGINT NOT NULL REFERENCES cupones(id),
            user_id TEXT NOT NULL,
            order_id UUID NOT NULL REFERENCES orders(id),
            descuento_aplicado NUMERIC(12,2) NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cupones_codigo ON cupones(UPPER(codigo))`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pending ON orders(estado, updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_cupones_uso_cupon ON cupones_uso(cupon_id, user_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
