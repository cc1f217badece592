package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kivumart-be/internal/payment"
)

var orderCols = []string{
	"id", "user_id", "shipping_address", "subtotal", "discount", "total", "status",
	"coupon_code", "tracking_number", "payment_method", "tx_ref", "payment_ref",
	"idempotency_key", "created_at", "updated_at",
}

var itemCols = []string{"id", "order_id", "product_id", "product_name", "quantity", "unit_price"}

func orderRow() *sqlmock.Rows {
	return sqlmock.NewRows(orderCols).AddRow(
		7, 9, `{"name":"Jean","line1":"KG 11 Ave","city":"Kigali","country":"RW","phone":"0788123456"}`,
		100000, 10000, 90000, "pending",
		"WELCOME10", nil, "card", "KVM-7-x", nil,
		"key-1", time.Now(), time.Now(),
	)
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	newOrder := func() *Order {
		return &Order{
			UserID:         9,
			Address:        ShippingAddress{Name: "Jean", Line1: "KG 11 Ave", City: "Kigali", Country: "RW", Phone: "0788123456"},
			Subtotal:       100000,
			Discount:       10000,
			Total:          90000,
			Status:         StatusPending,
			PaymentMethod:  payment.MethodCard,
			IdempotencyKey: "key-1",
			Items: []OrderItem{
				{ProductID: 1, Name: "Basket", Quantity: 2, UnitPrice: 30000},
				{ProductID: 2, Name: "Honey", Quantity: 1, UnitPrice: 40000},
			},
		}
	}

	t.Run("Success", func(t *testing.T) {
		o := newOrder()

		mock.ExpectQuery("INSERT INTO orders").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(7, time.Now(), time.Now()))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs(7, 1, "Basket", 2, 30000).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs(7, 2, "Honey", 1, 40000).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

		assert.NoError(t, repo.Create(context.Background(), o))
		assert.Equal(t, uint(7), o.ID)
		assert.Equal(t, uint(7), o.Items[0].OrderID)
		assert.Equal(t, uint(11), o.Items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ItemFailureDeletesOrder", func(t *testing.T) {
		o := newOrder()
		itemErr := errors.New("fk violation")

		mock.ExpectQuery("INSERT INTO orders").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(8, time.Now(), time.Now()))
		mock.ExpectQuery("INSERT INTO order_items").
			WillReturnError(itemErr)
		mock.ExpectExec("DELETE FROM orders").
			WithArgs(8).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), o)
		assert.ErrorIs(t, err, itemErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateIdempotencyKey", func(t *testing.T) {
		o := newOrder()

		mock.ExpectQuery("INSERT INTO orders").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), o)
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id =").
			WithArgs(7).
			WillReturnRows(orderRow())
		mock.ExpectQuery("SELECT (.+) FROM order_items").
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow(11, 7, 1, "Basket", 2, 30000).
				AddRow(12, 7, 2, "Honey", 1, 40000))

		o, err := repo.GetByID(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, uint(9), o.UserID)
		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, "Kigali", o.Address.City)
		assert.Len(t, o.Items, 2)
		assert.Equal(t, int64(30000), o.Items[0].UnitPrice)
	})

	t.Run("LegacyStringAddress", func(t *testing.T) {
		rows := sqlmock.NewRows(orderCols).AddRow(
			7, 9, "KG 11 Ave, Kigali", 100000, 0, 100000, "pending",
			nil, nil, "card", nil, nil, "", time.Now(), time.Now(),
		)
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id =").
			WithArgs(7).
			WillReturnRows(rows)
		mock.ExpectQuery("SELECT (.+) FROM order_items").
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows(itemCols))

		o, err := repo.GetByID(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, "KG 11 Ave, Kigali", o.Address.Line1)
		assert.Empty(t, o.Address.City)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id =").
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows(orderCols))

		_, err := repo.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_GetByIdempotencyKey(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE user_id =").
			WithArgs(9, "key-1").
			WillReturnRows(orderRow())
		mock.ExpectQuery("SELECT (.+) FROM order_items").
			WillReturnRows(sqlmock.NewRows(itemCols))

		o, err := repo.GetByIdempotencyKey(context.Background(), 9, "key-1")
		assert.NoError(t, err)
		assert.Equal(t, uint(7), o.ID)
	})

	t.Run("MissReturnsNil", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE user_id =").
			WithArgs(9, "other").
			WillReturnRows(sqlmock.NewRows(orderCols))

		o, err := repo.GetByIdempotencyKey(context.Background(), 9, "other")
		assert.NoError(t, err)
		assert.Nil(t, o)
	})
}

func TestRepository_GetByTxRef(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE tx_ref =").
		WithArgs("KVM-7-x").
		WillReturnRows(orderRow())
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WillReturnRows(sqlmock.NewRows(itemCols))

	o, err := repo.GetByTxRef(context.Background(), "KVM-7-x")
	assert.NoError(t, err)
	assert.Equal(t, uint(7), o.ID)
}

func TestRepository_MarkPaid(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WithArgs("processing", "tx-1", 7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkPaid(context.Background(), 7, "tx-1"))
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.MarkPaid(context.Background(), 99, "tx-1"), ErrOrderNotFound)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	tracking := "TRK123"

	t.Run("WithTracking", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WithArgs("shipped", &tracking, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(context.Background(), 7, StatusShipped, &tracking))
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateStatus(context.Background(), 99, StatusDelivered, nil), ErrOrderNotFound)
	})
}

func TestRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE user_id =").
		WithArgs(9).
		WillReturnRows(orderRow())
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(11, 7, 1, "Basket", 2, 30000))

	orders, err := repo.ListByUser(context.Background(), 9)
	assert.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Items, 1)
}

func TestRepository_WithTx(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := repo.WithTx(context.Background(), func(tx *sql.Tx) error { return nil })
		assert.NoError(t, err)
	})

	t.Run("RollbackOnError", func(t *testing.T) {
		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := repo.WithTx(context.Background(), func(tx *sql.Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}
