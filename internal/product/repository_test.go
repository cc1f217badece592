package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "price", "discount_percent",
		"category_id", "stock", "featured", "is_new", "avg_rating",
		"specifications", "imageurl", "created_at", "updated_at",
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := productRows().AddRow(
			1, "Solar Lamp", "desc", 25000, 10,
			3, 12, true, false, 4.5,
			[]byte(`{"color":"black"}`), "img.png", time.Now(), time.Now(),
		)

		mock.ExpectQuery("SELECT (.+) FROM products p").
			WithArgs(1).
			WillReturnRows(rows)

		p, err := repo.GetByID(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, "Solar Lamp", p.Name)
		assert.Equal(t, int64(22500), p.DiscountedPrice())
		assert.True(t, p.InStock)
		assert.Equal(t, "black", p.Specifications["color"])
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products p").
			WithArgs(99).
			WillReturnRows(productRows())

		_, err := repo.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_HasStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Enough", func(t *testing.T) {
		mock.ExpectQuery("SELECT stock >=").
			WithArgs(2, 1).
			WillReturnRows(sqlmock.NewRows([]string{"ok"}).AddRow(true))

		ok, err := repo.HasStock(context.Background(), 1, 2)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("MissingProduct", func(t *testing.T) {
		mock.ExpectQuery("SELECT stock >=").
			WithArgs(2, 42).
			WillReturnRows(sqlmock.NewRows([]string{"ok"}))

		_, err := repo.HasStock(context.Background(), 42, 2)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_DeductStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products").
			WithArgs(2, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Begin()
		require.NoError(t, err)

		assert.NoError(t, repo.DeductStock(context.Background(), tx, 1, 2))
	})

	t.Run("Insufficient", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products").
			WithArgs(99, 1).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		require.NoError(t, err)

		err = repo.DeductStock(context.Background(), tx, 1, 99)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products").
			WillReturnError(errors.New("db error"))

		tx, err := db.Begin()
		require.NoError(t, err)

		assert.Error(t, repo.DeductStock(context.Background(), tx, 1, 1))
	})
}

func TestRepository_CreateReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(1, 2, 5, "great").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, time.Now()))

	rev, err := repo.CreateReview(context.Background(), &Review{
		ProductID: 1, UserID: 2, Rating: 5, Comment: "great",
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(7), rev.ID)
}
