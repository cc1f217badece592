package product

import (
	"context"
	"errors"
)

type Service interface {
	GetProduct(ctx context.Context, id uint) (*Product, error)
	ListProducts(ctx context.Context, filter *ListFilter, sort *ListSort, limit, page *uint16) ([]*Product, error)
	AddReview(ctx context.Context, userID, productID uint, rating int32, comment string) (*Review, error)
	GetReviews(ctx context.Context, productID uint) ([]*Review, error)
	MarkReviewHelpful(ctx context.Context, reviewID, userID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProducts(
	ctx context.Context,
	filter *ListFilter,
	sort *ListSort,
	limit, page *uint16,
) ([]*Product, error) {
	return s.repo.List(ctx, filter, sort, limit, page)
}

func (s *service) AddReview(ctx context.Context, userID, productID uint, rating int32, comment string) (*Review, error) {
	if userID == 0 {
		return nil, errors.New("user ID is required")
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	// The product must exist before a review can reference it.
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	return s.repo.CreateReview(ctx, &Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	})
}

func (s *service) GetReviews(ctx context.Context, productID uint) ([]*Review, error) {
	return s.repo.ListReviews(ctx, productID)
}

func (s *service) MarkReviewHelpful(ctx context.Context, reviewID, userID uint) error {
	if userID == 0 {
		return errors.New("user ID is required")
	}
	return s.repo.VoteReviewHelpful(ctx, reviewID, userID)
}
