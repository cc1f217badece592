package category

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error) {
	args := m.Called(ctx, filter, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Category), args.Error(1)
}

func (m *MockRepository) AddCategory(ctx context.Context, name, slug string) (*Category, error) {
	args := m.Called(ctx, name, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

func TestService_AddCategory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("AddCategory", mock.Anything, "Home & Garden", "home-garden").
			Return(&Category{ID: 1, Name: "Home & Garden", Slug: "home-garden"}, nil)

		svc := NewService(repo)
		c, err := svc.AddCategory(context.Background(), "  Home & Garden ")

		assert.NoError(t, err)
		assert.Equal(t, "home-garden", c.Slug)
		repo.AssertExpectations(t)
	})

	t.Run("EmptyName", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.AddCategory(context.Background(), "   ")
		assert.Error(t, err)
	})

	t.Run("RepoError", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("AddCategory", mock.Anything, "Tools", "tools").
			Return(nil, errors.New("db error"))

		svc := NewService(repo)
		_, err := svc.AddCategory(context.Background(), "Tools")
		assert.Error(t, err)
	})
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "electronics", slugify("Electronics"))
	assert.Equal(t, "home-garden", slugify(" Home & Garden "))
	assert.Equal(t, "a-b-c", slugify("a  b___c"))
}
