package cart

import (
	"context"

	"kivumart-be/internal/logger"
	"kivumart-be/internal/product"

	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	AddItem(ctx context.Context, params AddParams) (*CartItem, error)
	GetCart(ctx context.Context, userID uint) ([]*CartItem, int64, error)
	UpdateQuantity(ctx context.Context, params UpdateParams) error
	RemoveItem(ctx context.Context, params RemoveParams) error
	ClearCart(ctx context.Context, userID uint) error
	MergeGuestCart(ctx context.Context, userID uint, guest []GuestItem, strategy MergeStrategy) ([]*CartItem, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

// AddItem adds a product to a user's cart. If the product is already in
// the cart its quantity is incremented.
func (s *service) AddItem(ctx context.Context, params AddParams) (*CartItem, error) {
	if params.UserID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.repo.GetItemByUserAndProduct(ctx, params.UserID, params.ProductID)
	if err != nil {
		return nil, err
	}

	finalQty := params.Quantity
	if existing != nil {
		finalQty += existing.Quantity
	}

	if p.Stock < finalQty {
		return nil, ErrInsufficientStock
	}

	if existing == nil {
		return s.repo.CreateItem(ctx, params)
	}

	if err := s.repo.UpdateQuantity(ctx, UpdateParams{
		UserID:    params.UserID,
		ProductID: params.ProductID,
		Quantity:  finalQty,
	}); err != nil {
		return nil, err
	}

	existing.Quantity = finalQty
	return existing, nil
}

// GetCart returns the user's items plus the subtotal over discounted
// unit prices.
func (s *service) GetCart(ctx context.Context, userID uint) ([]*CartItem, int64, error) {
	if userID == 0 {
		return nil, 0, ErrUserNotAuthenticated
	}

	items, err := s.repo.GetItems(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	var subtotal int64
	for _, it := range items {
		subtotal += it.UnitPrice * int64(it.Quantity)
	}

	return items, subtotal, nil
}

// UpdateQuantity sets a line's quantity; zero or below removes the line.
func (s *service) UpdateQuantity(ctx context.Context, params UpdateParams) error {
	if params.UserID == 0 {
		return ErrUserNotAuthenticated
	}

	if params.Quantity <= 0 {
		return s.repo.Remove(ctx, RemoveParams{
			UserID:    params.UserID,
			ProductID: params.ProductID,
		})
	}

	return s.repo.UpdateQuantity(ctx, params)
}

func (s *service) RemoveItem(ctx context.Context, params RemoveParams) error {
	if params.UserID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.Remove(ctx, params)
}

func (s *service) ClearCart(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.Clear(ctx, userID)
}

// MergeGuestCart folds a locally persisted anonymous cart into the
// user's server cart on sign-in.
func (s *service) MergeGuestCart(
	ctx context.Context,
	userID uint,
	guest []GuestItem,
	strategy MergeStrategy,
) ([]*CartItem, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MergeGuestCart"),
		zap.Uint("user_id", userID),
		zap.String("strategy", string(strategy)),
		zap.Int("guest_items", len(guest)),
	)

	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	if strategy == "" {
		strategy = MergeAdditive
	}

	if strategy == MergeReplace {
		if err := s.repo.Clear(ctx, userID); err != nil {
			log.Error("failed to clear cart before replace merge", zap.Error(err))
			return nil, err
		}
	}

	for _, g := range guest {
		if g.Quantity <= 0 {
			continue
		}

		_, err := s.AddItem(ctx, AddParams{
			UserID:    userID,
			ProductID: g.ProductID,
			Quantity:  g.Quantity,
		})
		if err != nil {
			// A stale guest line (deleted product, sold out) should not
			// sink the whole merge.
			log.Warn("skipping guest cart line",
				zap.Uint("product_id", g.ProductID),
				zap.Error(err),
			)
		}
	}

	items, _, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.Info("guest cart merged", zap.Int("final_items", len(items)))
	return items, nil
}
