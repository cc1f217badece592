package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kivumart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, filter *ListFilter, sort *ListSort, limit, page *uint16) ([]*Product, error)
	HasStock(ctx context.Context, productID uint, qty int32) (bool, error)
	DeductStock(ctx context.Context, tx *sql.Tx, productID uint, qty int32) error
	CreateReview(ctx context.Context, rev *Review) (*Review, error)
	ListReviews(ctx context.Context, productID uint) ([]*Review, error)
	VoteReviewHelpful(ctx context.Context, reviewID, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	p.id,
	p.name,
	p.description,
	p.price,
	p.discount_percent,
	p.category_id,
	p.stock,
	p.featured,
	p.is_new,
	COALESCE(r.avg_rating, 0),
	p.specifications,
	p.imageurl,
	p.created_at,
	p.updated_at
`

const ratingJoin = `
	LEFT JOIN (
		SELECT product_id, AVG(rating)::float AS avg_rating
		FROM reviews
		GROUP BY product_id
	) r ON r.product_id = p.id
`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	var specs []byte

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.DiscountPercent,
		&p.CategoryID,
		&p.Stock,
		&p.Featured,
		&p.New,
		&p.Rating,
		&specs,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.InStock = p.Stock > 0
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specifications); err != nil {
			return nil, fmt.Errorf("invalid specifications payload: %w", err)
		}
	}

	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p ` + ratingJoin + ` WHERE p.id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) List(
	ctx context.Context,
	filter *ListFilter,
	sort *ListSort,
	limit, page *uint16,
) ([]*Product, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	start := time.Now()

	// ---------- pagination ----------
	finalLimit := uint16(20)
	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	finalPage := uint16(1)
	if page != nil && *page > 0 {
		finalPage = *page
	}

	offset := int((finalPage - 1) * finalLimit)

	// ---------- where ----------
	where := []string{"1=1"}
	args := []any{}

	if filter != nil {
		if filter.CategoryID != nil {
			args = append(args, *filter.CategoryID)
			where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
		}
		if filter.Featured != nil {
			args = append(args, *filter.Featured)
			where = append(where, fmt.Sprintf("p.featured = $%d", len(args)))
		}
		if filter.New != nil {
			args = append(args, *filter.New)
			where = append(where, fmt.Sprintf("p.is_new = $%d", len(args)))
		}
		if filter.InStock != nil {
			if *filter.InStock {
				where = append(where, "p.stock > 0")
			} else {
				where = append(where, "p.stock = 0")
			}
		}
		if filter.Search != nil && *filter.Search != "" {
			args = append(args, "%"+*filter.Search+"%")
			where = append(where, fmt.Sprintf("p.name ILIKE $%d", len(args)))
		}
	}

	// ---------- sort ----------
	orderBy := "p.created_at DESC"
	if sort != nil {
		field := "p.created_at"
		switch sort.Field {
		case "price":
			field = "p.price"
		case "name":
			field = "p.name"
		case "rating":
			field = "COALESCE(r.avg_rating, 0)"
		}

		dir := "DESC"
		if sort.Ascending {
			dir = "ASC"
		}
		orderBy = field + " " + dir
	}

	query := `SELECT ` + productColumns + `
	FROM products p ` + ratingJoin + `
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY ` + orderBy + `
	LIMIT $` + fmt.Sprint(len(args)+1) + `
	OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}
	defer rows.Close()

	result := make([]*Product, 0, finalLimit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (r *repository) HasStock(ctx context.Context, productID uint, qty int32) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT stock >= $1 FROM products WHERE id = $2
	`, qty, productID).Scan(&ok)

	if err == sql.ErrNoRows {
		return false, ErrProductNotFound
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

// DeductStock decrements stock inside the caller's transaction. The guard
// on the WHERE clause keeps stock from going negative under races.
func (r *repository) DeductStock(ctx context.Context, tx *sql.Tx, productID uint, qty int32) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`, qty, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *repository) CreateReview(ctx context.Context, rev *Review) (*Review, error) {
	query := `
	INSERT INTO reviews (product_id, user_id, rating, comment)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		rev.ProductID, rev.UserID, rev.Rating, rev.Comment,
	).Scan(&rev.ID, &rev.CreatedAt)
	if err != nil {
		return nil, err
	}

	return rev, nil
}

func (r *repository) ListReviews(ctx context.Context, productID uint) ([]*Review, error) {
	query := `
	SELECT
		rv.id, rv.product_id, rv.user_id, rv.rating, rv.comment,
		COALESCE(v.votes, 0), rv.created_at
	FROM reviews rv
	LEFT JOIN (
		SELECT review_id, COUNT(*) AS votes
		FROM review_votes
		GROUP BY review_id
	) v ON v.review_id = rv.id
	WHERE rv.product_id = $1
	ORDER BY rv.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(
			&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating,
			&rev.Comment, &rev.Helpful, &rev.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &rev)
	}

	return result, rows.Err()
}

func (r *repository) VoteReviewHelpful(ctx context.Context, reviewID, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO review_votes (review_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (review_id, user_id) DO NOTHING
	`, reviewID, userID)
	return err
}
