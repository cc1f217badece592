package category

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"kivumart-be/internal/logger"

	"go.uber.org/zap"
)

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

type Service interface {
	GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error)
	AddCategory(ctx context.Context, name string) (*Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error) {
	return s.repo.GetCategories(ctx, filter, limit, page)
}

func (s *service) AddCategory(ctx context.Context, name string) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddCategory"),
		zap.String("name", name),
	)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is required")
	}

	c, err := s.repo.AddCategory(ctx, name, slugify(name))
	if err != nil {
		log.Error("failed to add category", zap.Error(err))
		return nil, err
	}

	log.Info("category added", zap.Uint("category_id", c.ID))
	return c, nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonAlnumRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
