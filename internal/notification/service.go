package notification

import (
	"context"

	"kivumart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	// Notify inserts an in-app notification. Best-effort: a failed insert
	// is logged and swallowed so it never blocks a state transition.
	Notify(ctx context.Context, n *Notification)
	List(ctx context.Context, userID uint, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Notify(ctx context.Context, n *Notification) {
	if _, err := s.repo.Create(ctx, n); err != nil {
		logger.FromCtx(ctx).Warn("failed to create notification",
			zap.Uint("user_id", n.UserID),
			zap.String("type", string(n.Type)),
			zap.Error(err),
		)
	}
}

func (s *service) List(ctx context.Context, userID uint, unreadOnly bool) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly)
}

func (s *service) MarkRead(ctx context.Context, id, userID uint) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *service) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllRead(ctx, userID)
}
