package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_CreateItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	params := AddParams{UserID: 1, ProductID: 10, Quantity: 2}

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "product_id", "quantity", "created_at", "updated_at"}).
			AddRow(1, 1, 10, 2, time.Now(), time.Now())

		mock.ExpectQuery("INSERT INTO cart_items").
			WithArgs(params.UserID, params.ProductID, params.Quantity).
			WillReturnRows(rows)

		res, err := repo.CreateItem(context.Background(), params)
		assert.NoError(t, err)
		assert.Equal(t, uint(1), res.ID)
		assert.Equal(t, int32(2), res.Quantity)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO cart_items").
			WillReturnError(errors.New("db error"))

		_, err := repo.CreateItem(context.Background(), params)
		assert.Error(t, err)
	})
}

func TestRepository_UpdateQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	params := UpdateParams{UserID: 1, ProductID: 10, Quantity: 5}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE cart_items").
			WithArgs(params.Quantity, params.UserID, params.ProductID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateQuantity(context.Background(), params))
	})

	t.Run("NoMatch", func(t *testing.T) {
		mock.ExpectExec("UPDATE cart_items").
			WithArgs(params.Quantity, params.UserID, params.ProductID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateQuantity(context.Background(), params)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})

	t.Run("RejectsNonPositive", func(t *testing.T) {
		err := repo.UpdateQuantity(context.Background(), UpdateParams{UserID: 1, ProductID: 10})
		assert.Error(t, err)
	})
}

func TestRepository_Remove(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	params := RemoveParams{UserID: 1, ProductID: 10}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM cart_items").
			WithArgs(params.UserID, params.ProductID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Remove(context.Background(), params))
	})

	t.Run("NoMatch", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM cart_items").
			WithArgs(params.UserID, params.ProductID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Remove(context.Background(), params)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})
}

func TestRepository_GetItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "product_id", "quantity", "created_at", "updated_at",
		"name", "unit_price", "category_id", "stock", "imageurl",
	}).
		AddRow(1, 1, 10, 2, time.Now(), time.Now(), "Lamp", 9000, 3, 20, "a.png").
		AddRow(2, 1, 11, 1, time.Now(), time.Now(), "Basket", 25000, 4, 5, "b.png")

	mock.ExpectQuery("SELECT(.+)FROM cart_items c").
		WithArgs(1).
		WillReturnRows(rows)

	items, err := repo.GetItems(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "Lamp", items[0].ProductName)
	assert.Equal(t, int64(9000), items[0].UnitPrice)
}

func TestRepository_Clear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("DELETE FROM cart_items WHERE user_id").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.Clear(context.Background(), 1))
}
