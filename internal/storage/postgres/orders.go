package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"github.com/mercadillo/mercadillo/internal/domain/model"
)

const orderColumns = `id, user_id, items, subtotal, descuento, cupon_codigo, total, estado,
                      direccion_envio, metodo_entrega, metodo_pago,
                      mercadopago_external_reference, mercadopago_preference_id, mercadopago_payment_id,
                      mercadopago_status, mercadopago_status_detail, mercadopago_payment_type,
                      created_at, updated_at`

type orderRepository struct {
	storage *Storage
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o         model.Order
		items     []byte
		reference *string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &items, &o.Subtotal, &o.Discount, &o.CouponCode, &o.Total, &o.Status,
		&o.ShippingAddress, &o.DeliveryMethod, &o.PaymentMethod,
		&reference, &o.Payment.PreferenceID, &o.Payment.PaymentID,
		&o.Payment.Status, &o.Payment.StatusDetail, &o.Payment.PaymentType,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reference != nil {
		o.Payment.ExternalReference = *reference
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode items of order %s: %w", o.ID, err)
		}
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) CreateFromCheckout(ctx context.Context, order *model.Order) (*model.Order, bool, error) {
	const query = `INSERT INTO orders (id, user_id, items, subtotal, descuento, cupon_codigo, total, estado,
                       direccion_envio, metodo_entrega, metodo_pago,
                       mercadopago_external_reference, mercadopago_preference_id, mercadopago_payment_id,
                       mercadopago_status, mercadopago_status_detail, mercadopago_payment_type)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
                   ON CONFLICT (mercadopago_external_reference) DO NOTHING
                   RETURNING created_at, updated_at`

	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, false, fmt.Errorf("encode items: %w", err)
	}

	created := *order
	err = r.storage.pool.QueryRow(ctx, query,
		order.ID, order.UserID, items, order.Subtotal, order.Discount, order.CouponCode, order.Total, order.Status,
		order.ShippingAddress, order.DeliveryMethod, order.PaymentMethod,
		order.Payment.ExternalReference, order.Payment.PreferenceID, order.Payment.PaymentID,
		order.Payment.Status, order.Payment.StatusDetail, order.Payment.PaymentType,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.GetByExternalReference(ctx, order.Payment.ExternalReference)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return &created, true, nil
}

func (r *orderRepository) GetByExternalReference(ctx context.Context, reference string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE mercadopago_external_reference=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) UpdatePayment(ctx context.Context, orderID string, update model.PaymentUpdate) (*model.Order, error) {
	const query = `UPDATE orders
                   SET mercadopago_payment_id=$2, mercadopago_status=$3, mercadopago_status_detail=$4,
                       mercadopago_payment_type=$5, estado=COALESCE($6, estado), updated_at=NOW()
                   WHERE id=$1
                   RETURNING ` + orderColumns

	var status *string
	if update.OrderStatus != nil {
		s := string(*update.OrderStatus)
		status = &s
	}

	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query,
		orderID, update.PaymentID, update.Status, update.StatusDetail, update.PaymentType, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// SelectStalePending claims pending orders that carry a payment id and were not touched since olderThan.
// Claimed rows get updated_at bumped so concurrent sweepers skip them until they go stale again.
func (r *orderRepository) SelectStalePending(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	const selectQuery = `SELECT ` + orderColumns + `
                         FROM orders
                         WHERE estado=$1 AND mercadopago_payment_id <> '' AND updated_at < $2
                         ORDER BY updated_at
                         LIMIT $3
                         FOR UPDATE SKIP LOCKED`

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, model.OrderStatusPending, olderThan, limit)
		if err != nil {
			return err
		}
		orders, err = collectOrders(rows)
		if err != nil {
			return err
		}

		for i := range orders {
			if _, err := tx.Exec(ctx, `UPDATE orders SET updated_at=NOW() WHERE id=$1`, orders[i].ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}
