package coupon

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	// Redeem increments the usage counter, refusing once max_uses is
	// reached, and records the use against the order.
	Redeem(ctx context.Context, tx *sql.Tx, couponID, orderID, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	query := `
	SELECT
		id, code, discount_type, discount_value,
		min_purchase_amount, max_discount_amount,
		max_uses, current_uses, applies_to_category,
		active, valid_from, valid_to, created_at
	FROM coupons
	WHERE LOWER(code) = LOWER($1)
	`

	var c Coupon
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinPurchaseAmount,
		&c.MaxDiscountAmount,
		&c.MaxUses,
		&c.CurrentUses,
		&c.AppliesToCategory,
		&c.Active,
		&c.ValidFrom,
		&c.ValidTo,
		&c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) Redeem(ctx context.Context, tx *sql.Tx, couponID, orderID, userID uint) error {
	// The WHERE guard makes the increment atomic with respect to the cap:
	// once current_uses hits max_uses no further row matches.
	res, err := tx.ExecContext(ctx, `
		UPDATE coupons
		SET current_uses = current_uses + 1
		WHERE id = $1
		  AND (max_uses IS NULL OR current_uses < max_uses)
	`, couponID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUsageExhausted
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO coupon_uses (coupon_id, order_id, user_id)
		VALUES ($1, $2, $3)
	`, couponID, orderID, userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyRedeemed
		}
		return err
	}

	return nil
}
