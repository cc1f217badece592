package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) (*Notification, error) {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO notifications (user_id, type, title, message, payload)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		n.UserID, n.Type, n.Title, n.Message, payload,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return nil, err
	}

	return n, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]*Notification, error) {
	query := `
	SELECT id, user_id, type, title, message, read, payload, created_at
	FROM notifications
	WHERE user_id = $1
	`
	if unreadOnly {
		query += " AND read = false"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Notification
	for rows.Next() {
		var n Notification
		var payload []byte
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.Read, &payload, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &n.Payload); err != nil {
				return nil, err
			}
		}
		result = append(result, &n)
	}

	return result, rows.Err()
}

func (r *repository) MarkRead(ctx context.Context, id, userID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET read = true
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET read = true
		WHERE user_id = $1 AND read = false
	`, userID)
	return err
}
