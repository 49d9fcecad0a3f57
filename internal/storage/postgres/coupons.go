package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/domain/model"
)

type couponRepository struct {
	storage *Storage
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	const query = `SELECT id, codigo, tipo_descuento, valor, monto_minimo, usos_maximos, usos_por_usuario,
                          activo, fecha_inicio, fecha_expiracion
                   FROM cupones WHERE UPPER(codigo)=UPPER($1)`
	var c model.Coupon
	err := r.storage.pool.QueryRow(ctx, query, code).Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.Value, &c.MinimumAmount, &c.MaxUses, &c.MaxUsesPerUser,
		&c.Active, &c.StartsAt, &c.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *couponRepository) CountUsages(ctx context.Context, couponID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM cupones_uso WHERE cupon_id=$1`
	var count int
	if err := r.storage.pool.QueryRow(ctx, query, couponID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *couponRepository) CountUserUsages(ctx context.Context, couponID int64, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM cupones_uso WHERE cupon_id=$1 AND user_id=$2`
	var count int
	if err := r.storage.pool.QueryRow(ctx, query, couponID, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *couponRepository) RecordUsage(ctx context.Context, usage model.CouponUsage) error {
	const query = `INSERT INTO cupones_uso (cupon_id, user_id, order_id, descuento_aplicado) VALUES ($1, $2, $3, $4)`
	_, err := r.storage.pool.Exec(ctx, query, usage.CouponID, usage.UserID, usage.OrderID, usage.DiscountAmount)
	return err
}
