package cart

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"kivumart-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetItems(ctx context.Context, userID uint) ([]*CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*CartItem), args.Error(1)
}

func (m *MockRepository) GetItemByUserAndProduct(ctx context.Context, userID, productID uint) (*CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) CreateItem(ctx context.Context, params AddParams) (*CartItem, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) UpdateQuantity(ctx context.Context, params UpdateParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockRepository) Remove(ctx context.Context, params RemoveParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockRepository) Clear(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockProductRepository is a mock for the product repository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter *product.ListFilter, sort *product.ListSort, limit, page *uint16) ([]*product.Product, error) {
	args := m.Called(ctx, filter, sort, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepository) HasStock(ctx context.Context, productID uint, qty int32) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) DeductStock(ctx context.Context, tx *sql.Tx, productID uint, qty int32) error {
	args := m.Called(ctx, tx, productID, qty)
	return args.Error(0)
}

func (m *MockProductRepository) CreateReview(ctx context.Context, rev *product.Review) (*product.Review, error) {
	args := m.Called(ctx, rev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Review), args.Error(1)
}

func (m *MockProductRepository) ListReviews(ctx context.Context, productID uint) ([]*product.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Review), args.Error(1)
}

func (m *MockProductRepository) VoteReviewHelpful(ctx context.Context, reviewID, userID uint) error {
	args := m.Called(ctx, reviewID, userID)
	return args.Error(0)
}

func TestService_AddItem(t *testing.T) {
	inStock := &product.Product{ID: 10, Stock: 5, Price: 10000}

	t.Run("NewLine", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, uint(10)).Return(inStock, nil)
		repo.On("GetItemByUserAndProduct", mock.Anything, uint(1), uint(10)).Return(nil, nil)
		repo.On("CreateItem", mock.Anything, AddParams{UserID: 1, ProductID: 10, Quantity: 2}).
			Return(&CartItem{ID: 1, UserID: 1, ProductID: 10, Quantity: 2}, nil)

		svc := NewService(repo, productRepo)
		item, err := svc.AddItem(context.Background(), AddParams{UserID: 1, ProductID: 10, Quantity: 2})

		assert.NoError(t, err)
		assert.Equal(t, int32(2), item.Quantity)
		repo.AssertExpectations(t)
	})

	t.Run("ExistingLineIncrements", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, uint(10)).Return(inStock, nil)
		repo.On("GetItemByUserAndProduct", mock.Anything, uint(1), uint(10)).
			Return(&CartItem{ID: 1, UserID: 1, ProductID: 10, Quantity: 2}, nil)
		repo.On("UpdateQuantity", mock.Anything, UpdateParams{UserID: 1, ProductID: 10, Quantity: 3}).
			Return(nil)

		svc := NewService(repo, productRepo)
		item, err := svc.AddItem(context.Background(), AddParams{UserID: 1, ProductID: 10, Quantity: 1})

		assert.NoError(t, err)
		assert.Equal(t, int32(3), item.Quantity)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, uint(10)).Return(inStock, nil)
		repo.On("GetItemByUserAndProduct", mock.Anything, uint(1), uint(10)).
			Return(&CartItem{Quantity: 4}, nil)

		svc := NewService(repo, productRepo)
		_, err := svc.AddItem(context.Background(), AddParams{UserID: 1, ProductID: 10, Quantity: 2})

		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))
		_, err := svc.AddItem(context.Background(), AddParams{ProductID: 10, Quantity: 1})

		assert.ErrorIs(t, err, ErrUserNotAuthenticated)
	})
}

func TestService_UpdateQuantity(t *testing.T) {
	t.Run("ZeroRemoves", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Remove", mock.Anything, RemoveParams{UserID: 1, ProductID: 10}).Return(nil)

		svc := NewService(repo, new(MockProductRepository))
		err := svc.UpdateQuantity(context.Background(), UpdateParams{UserID: 1, ProductID: 10, Quantity: 0})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("PositiveUpdates", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdateQuantity", mock.Anything, UpdateParams{UserID: 1, ProductID: 10, Quantity: 4}).Return(nil)

		svc := NewService(repo, new(MockProductRepository))
		err := svc.UpdateQuantity(context.Background(), UpdateParams{UserID: 1, ProductID: 10, Quantity: 4})

		assert.NoError(t, err)
	})
}

func TestService_GetCart(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetItems", mock.Anything, uint(1)).Return([]*CartItem{
		{ProductID: 10, Quantity: 2, UnitPrice: 9000},
		{ProductID: 11, Quantity: 1, UnitPrice: 25000},
	}, nil)

	svc := NewService(repo, new(MockProductRepository))
	items, subtotal, err := svc.GetCart(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(43000), subtotal)
}

func TestService_MergeGuestCart(t *testing.T) {
	stocked := &product.Product{ID: 10, Stock: 99}

	t.Run("AdditiveIntoEmptyRemote", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, uint(10)).Return(stocked, nil)
		repo.On("GetItemByUserAndProduct", mock.Anything, uint(1), uint(10)).Return(nil, nil)
		repo.On("CreateItem", mock.Anything, AddParams{UserID: 1, ProductID: 10, Quantity: 2}).
			Return(&CartItem{ProductID: 10, Quantity: 2}, nil)
		repo.On("GetItems", mock.Anything, uint(1)).
			Return([]*CartItem{{ProductID: 10, Quantity: 2}}, nil)

		svc := NewService(repo, productRepo)
		items, err := svc.MergeGuestCart(context.Background(), 1,
			[]GuestItem{{ProductID: 10, Quantity: 2}}, MergeAdditive)

		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, int32(2), items[0].Quantity)
	})

	t.Run("AdditiveSumsDuplicates", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, uint(10)).Return(stocked, nil)
		// remote already holds 3 of the product
		repo.On("GetItemByUserAndProduct", mock.Anything, uint(1), uint(10)).
			Return(&CartItem{ProductID: 10, Quantity: 3}, nil)
		repo.On("UpdateQuantity", mock.Anything, UpdateParams{UserID: 1, ProductID: 10, Quantity: 5}).
			Return(nil)
		repo.On("GetItems", mock.Anything, uint(1)).
			Return([]*CartItem{{ProductID: 10, Quantity: 5}}, nil)

		svc := NewService(repo, productRepo)
		items, err := svc.MergeGuestCart(context.Background(), 1,
			[]GuestItem{{ProductID: 10, Quantity: 2}}, MergeAdditive)

		assert.NoError(t, err)
		assert.Equal(t, int32(5), items[0].Quantity)
	})

	t.Run("ReplaceClearsRemoteFirst", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		repo.On("Clear", mock.Anything, uint(1)).Return(nil)
		productRepo.On("GetByID", mock.Anything, uint(10)).Return(stocked, nil)
		repo.On("GetItemByUserAndProduct", mock.Anything, uint(1), uint(10)).Return(nil, nil)
		repo.On("CreateItem", mock.Anything, AddParams{UserID: 1, ProductID: 10, Quantity: 2}).
			Return(&CartItem{ProductID: 10, Quantity: 2}, nil)
		repo.On("GetItems", mock.Anything, uint(1)).
			Return([]*CartItem{{ProductID: 10, Quantity: 2}}, nil)

		svc := NewService(repo, productRepo)
		items, err := svc.MergeGuestCart(context.Background(), 1,
			[]GuestItem{{ProductID: 10, Quantity: 2}}, MergeReplace)

		assert.NoError(t, err)
		assert.Len(t, items, 1)
		// any pre-existing remote line is gone: last writer wins
		repo.AssertCalled(t, "Clear", mock.Anything, uint(1))
	})

	t.Run("StaleGuestLineSkipped", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, errors.New("gone"))
		repo.On("GetItems", mock.Anything, uint(1)).Return([]*CartItem{}, nil)

		svc := NewService(repo, productRepo)
		items, err := svc.MergeGuestCart(context.Background(), 1,
			[]GuestItem{{ProductID: 99, Quantity: 1}}, MergeAdditive)

		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}
