package returns

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	Create(ctx context.Context, req *ReturnRequest) error
	GetByID(ctx context.Context, id uint) (*ReturnRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]*ReturnRequest, error)
	ListAll(ctx context.Context) ([]*ReturnRequest, error)
	// ReturnedQuantity sums already-requested units for the order line,
	// excluding rejected requests.
	ReturnedQuantity(ctx context.Context, orderID, productID uint) (int32, error)
	UpdateDecision(ctx context.Context, params DecisionParams) error
	Complete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const returnColumns = `
	id, order_id, product_id, user_id, quantity, reason, description,
	status, refund_amount, admin_notes, requested_at, decided_at`

func scanReturn(row interface{ Scan(...any) error }) (*ReturnRequest, error) {
	var req ReturnRequest
	err := row.Scan(
		&req.ID, &req.OrderID, &req.ProductID, &req.UserID, &req.Quantity,
		&req.Reason, &req.Description, &req.Status, &req.RefundAmount,
		&req.AdminNotes, &req.RequestedAt, &req.DecidedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) Create(ctx context.Context, req *ReturnRequest) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO return_requests (order_id, product_id, user_id, quantity, reason, description, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, requested_at
	`,
		req.OrderID, req.ProductID, req.UserID, req.Quantity,
		req.Reason, req.Description, req.Status,
	).Scan(&req.ID, &req.RequestedAt)
}

func (r *repository) GetByID(ctx context.Context, id uint) (*ReturnRequest, error) {
	req, err := scanReturn(r.db.QueryRowContext(ctx,
		`SELECT `+returnColumns+` FROM return_requests WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReturnNotFound
	}
	return req, err
}

func (r *repository) list(ctx context.Context, where string, args ...any) ([]*ReturnRequest, error) {
	query := `SELECT ` + returnColumns + ` FROM return_requests`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY requested_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*ReturnRequest
	for rows.Next() {
		req, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*ReturnRequest, error) {
	return r.list(ctx, `user_id = $1`, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]*ReturnRequest, error) {
	return r.list(ctx, "")
}

func (r *repository) ReturnedQuantity(ctx context.Context, orderID, productID uint) (int32, error) {
	var qty int32
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM return_requests
		WHERE order_id = $1 AND product_id = $2 AND status != $3
	`, orderID, productID, StatusRejected).Scan(&qty)
	return qty, err
}

func (r *repository) UpdateDecision(ctx context.Context, params DecisionParams) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE return_requests
		SET status = $1, refund_amount = $2, admin_notes = $3, decided_at = NOW()
		WHERE id = $4
	`, params.Status, params.RefundAmount, params.AdminNotes, params.RequestID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) Complete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE return_requests SET status = $1 WHERE id = $2
	`, StatusCompleted, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReturnNotFound
	}
	return nil
}
