package returns

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var returnCols = []string{
	"id", "order_id", "product_id", "user_id", "quantity", "reason", "description",
	"status", "refund_amount", "admin_notes", "requested_at", "decided_at",
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	req := &ReturnRequest{
		OrderID: 7, ProductID: 1, UserID: 9, Quantity: 1,
		Reason: ReasonDamaged, Status: StatusPending,
	}

	mock.ExpectQuery("INSERT INTO return_requests").
		WithArgs(7, 1, 9, 1, "damaged", nil, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requested_at"}).AddRow(3, time.Now()))

	assert.NoError(t, repo.Create(context.Background(), req))
	assert.Equal(t, uint(3), req.ID)
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM return_requests WHERE id =").
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows(returnCols).
				AddRow(3, 7, 1, 9, 1, "damaged", nil, "pending", nil, nil, time.Now(), nil))

		req, err := repo.GetByID(context.Background(), 3)
		assert.NoError(t, err)
		assert.Equal(t, ReasonDamaged, req.Reason)
		assert.Equal(t, StatusPending, req.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM return_requests WHERE id =").
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows(returnCols))

		_, err := repo.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, ErrReturnNotFound)
	})
}

func TestRepository_ReturnedQuantity(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(7, 1, "rejected").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(2))

	qty, err := repo.ReturnedQuantity(context.Background(), 7, 1)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), qty)
}

func TestRepository_UpdateDecision(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	refund := int64(30000)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE return_requests").
			WithArgs("approved", &refund, nil, 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateDecision(context.Background(), DecisionParams{
			RequestID: 3, Status: StatusApproved, RefundAmount: &refund,
		})
		assert.NoError(t, err)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectExec("UPDATE return_requests").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateDecision(context.Background(), DecisionParams{RequestID: 99, Status: StatusRejected})
		assert.ErrorIs(t, err, ErrReturnNotFound)
	})
}
