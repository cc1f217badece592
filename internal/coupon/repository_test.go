package coupon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func couponRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "code", "discount_type", "discount_value",
		"min_purchase_amount", "max_discount_amount",
		"max_uses", "current_uses", "applies_to_category",
		"active", "valid_from", "valid_to", "created_at",
	})
}

func TestRepository_GetByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := couponRows().AddRow(
			1, "WELCOME10", "percentage", 10,
			50000, nil, 100, 3, nil,
			true, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), time.Now(),
		)

		mock.ExpectQuery("SELECT(.+)FROM coupons").
			WithArgs("welcome10").
			WillReturnRows(rows)

		c, err := repo.GetByCode(context.Background(), "welcome10")
		assert.NoError(t, err)
		assert.Equal(t, "WELCOME10", c.Code)
		assert.Equal(t, DiscountPercentage, c.DiscountType)
		assert.Equal(t, int64(50000), *c.MinPurchaseAmount)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.+)FROM coupons").
			WithArgs("NOPE").
			WillReturnRows(couponRows())

		_, err := repo.GetByCode(context.Background(), "NOPE")
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})
}

func TestRepository_Redeem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE coupons").
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO coupon_uses").
			WithArgs(1, 5, 2).
			WillReturnResult(sqlmock.NewResult(1, 1))

		tx, err := db.Begin()
		require.NoError(t, err)

		assert.NoError(t, repo.Redeem(context.Background(), tx, 1, 5, 2))
	})

	t.Run("Exhausted", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE coupons").
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		require.NoError(t, err)

		err = repo.Redeem(context.Background(), tx, 1, 5, 2)
		assert.ErrorIs(t, err, ErrUsageExhausted)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE coupons").
			WillReturnError(errors.New("db error"))

		tx, err := db.Begin()
		require.NoError(t, err)

		assert.Error(t, repo.Redeem(context.Background(), tx, 1, 5, 2))
	})
}
