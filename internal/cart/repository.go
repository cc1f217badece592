package cart

import (
	"context"
	"database/sql"
	"errors"

	"kivumart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetItems(ctx context.Context, userID uint) ([]*CartItem, error)
	GetItemByUserAndProduct(ctx context.Context, userID, productID uint) (*CartItem, error)
	CreateItem(ctx context.Context, params AddParams) (*CartItem, error)
	UpdateQuantity(ctx context.Context, params UpdateParams) error
	Remove(ctx context.Context, params RemoveParams) error
	Clear(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetItems(ctx context.Context, userID uint) ([]*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetItems"),
		zap.Uint("user_id", userID),
	)

	query := `
	SELECT
		c.id,
		c.user_id,
		c.product_id,
		c.quantity,
		c.created_at,
		c.updated_at,
		p.name,
		p.price - p.price * p.discount_percent / 100,
		p.category_id,
		p.stock,
		p.imageurl
	FROM cart_items c
	JOIN products p ON p.id = c.product_id
	WHERE c.user_id = $1
	ORDER BY c.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*CartItem
	for rows.Next() {
		var it CartItem
		if err := rows.Scan(
			&it.ID,
			&it.UserID,
			&it.ProductID,
			&it.Quantity,
			&it.CreatedAt,
			&it.UpdatedAt,
			&it.ProductName,
			&it.UnitPrice,
			&it.CategoryID,
			&it.Stock,
			&it.ImageURL,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, &it)
	}

	return items, rows.Err()
}

func (r *repository) GetItemByUserAndProduct(ctx context.Context, userID, productID uint) (*CartItem, error) {
	query := `
	SELECT id, user_id, product_id, quantity, created_at, updated_at
	FROM cart_items
	WHERE user_id = $1 AND product_id = $2
	`

	var it CartItem
	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(
		&it.ID, &it.UserID, &it.ProductID, &it.Quantity,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &it, nil
}

func (r *repository) CreateItem(ctx context.Context, params AddParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateItem"),
		zap.Uint("user_id", params.UserID),
		zap.Uint("product_id", params.ProductID),
	)

	query := `
	INSERT INTO cart_items (user_id, product_id, quantity)
	VALUES ($1, $2, $3)
	RETURNING id, user_id, product_id, quantity, created_at, updated_at
	`

	var it CartItem
	err := r.db.QueryRowContext(ctx, query,
		params.UserID, params.ProductID, params.Quantity,
	).Scan(
		&it.ID, &it.UserID, &it.ProductID, &it.Quantity,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create cart item", zap.Error(err))
		return nil, err
	}

	return &it, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, params UpdateParams) error {
	if params.Quantity <= 0 {
		return errors.New("quantity must be greater than zero")
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
	`, params.Quantity, params.UserID, params.ProductID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) Remove(ctx context.Context, params RemoveParams) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`, params.UserID, params.ProductID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = $1
	`, userID)
	return err
}
