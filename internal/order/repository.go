package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"kivumart-be/internal/logger"
)

type Repository interface {
	// Create inserts the order row, then its items. If any item insert
	// fails the order row is deleted and the original error returned.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	// GetByIdempotencyKey returns nil without error when no order
	// carries the key.
	GetByIdempotencyKey(ctx context.Context, userID uint, key string) (*Order, error)
	GetByTxRef(ctx context.Context, txRef string) (*Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	SetTxRef(ctx context.Context, orderID uint, txRef string) error
	// MarkPaid moves the order to processing and records the payment
	// reference in one statement.
	MarkPaid(ctx context.Context, orderID uint, paymentRef string) error
	UpdateStatus(ctx context.Context, orderID uint, status Status, trackingNumber *string) error
	// Delete exists for compensating rollback only; orders are never
	// deleted once payment side effects have run.
	Delete(ctx context.Context, orderID uint) error
	WithTx(ctx context.Context, fn func(*sql.Tx) error) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, user_id, shipping_address, subtotal, discount, total, status,
	coupon_code, tracking_number, payment_method, tx_ref, payment_ref,
	idempotency_key, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Address, &o.Subtotal, &o.Discount, &o.Total,
		&o.Status, &o.CouponCode, &o.TrackingNumber, &o.PaymentMethod,
		&o.TxRef, &o.PaymentRef, &o.IdempotencyKey, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, shipping_address, subtotal, discount, total, status,
			coupon_code, payment_method, idempotency_key
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at
	`,
		o.UserID, o.Address, o.Subtotal, o.Discount, o.Total, o.Status,
		o.CouponCode, o.PaymentMethod, o.IdempotencyKey,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateKey
		}
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		err = r.db.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id
		`, o.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice).Scan(&item.ID)
		if err != nil {
			// compensating delete; the original error wins
			if _, delErr := r.db.ExecContext(ctx,
				`DELETE FROM orders WHERE id = $1`, o.ID); delErr != nil {
				logger.FromCtx(ctx).Error("Failed rolling back order after item insert failure",
					zap.Uint("order_id", o.ID),
					zap.Error(delErr))
			}
			return err
		}
	}

	return nil
}

func (r *repository) getOne(ctx context.Context, where string, args ...any) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+where, args...))
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *repository) loadItems(ctx context.Context, orderID uint) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name,
			&it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	o, err := r.getOne(ctx, `id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (r *repository) GetByIdempotencyKey(ctx context.Context, userID uint, key string) (*Order, error) {
	o, err := r.getOne(ctx, `user_id = $1 AND idempotency_key = $2`, userID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func (r *repository) GetByTxRef(ctx context.Context, txRef string) (*Order, error) {
	o, err := r.getOne(ctx, `tx_ref = $1`, txRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (r *repository) list(ctx context.Context, where string, args ...any) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.loadItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Order, error) {
	return r.list(ctx, `user_id = $1`, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]*Order, error) {
	return r.list(ctx, "")
}

func (r *repository) SetTxRef(ctx context.Context, orderID uint, txRef string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET tx_ref = $1, updated_at = NOW()
		WHERE id = $2
	`, txRef, orderID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) MarkPaid(ctx context.Context, orderID uint, paymentRef string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_ref = $2, updated_at = NOW()
		WHERE id = $3
	`, StatusProcessing, paymentRef, orderID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uint, status Status, trackingNumber *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    tracking_number = COALESCE($2, tracking_number),
		    updated_at = NOW()
		WHERE id = $3
	`, status, trackingNumber, orderID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) Delete(ctx context.Context, orderID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	return err
}

func (r *repository) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
