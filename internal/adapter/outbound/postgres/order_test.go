package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniedit/checkout/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*orderStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewOrderStore(db, nil).(*orderStore), mock
}

var orderColumns = []string{"order_id", "snapshot", "transaction_id", "payment_status", "amount_authorized", "created_at", "updated_at"}

func TestOrderStore_SaveOrder(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO "netseasy_orders" .* ON CONFLICT \("order_id"\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SaveOrder(context.Background(), &model.Order{ID: "order-1", CurrencyCode: "DKK"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderStore_GetOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t)
		snapshot, err := json.Marshal(&model.Order{ID: "order-1", OrderNumber: "ORD-1", CurrencyCode: "DKK"})
		require.NoError(t, err)
		now := time.Now()

		mock.ExpectQuery(`SELECT \* FROM "netseasy_orders" WHERE order_id = \$1`).
			WillReturnRows(sqlmock.NewRows(orderColumns).
				AddRow("order-1", string(snapshot), "pay-1", "authorized", "250.00", now, now))
		mock.ExpectQuery(`SELECT \* FROM "netseasy_transaction_metadata" WHERE order_id = \$1`).
			WithArgs("order-1").
			WillReturnRows(sqlmock.NewRows([]string{"order_id", "key", "value", "updated_at"}).
				AddRow("order-1", model.MetaPaymentID, "pay-1", now).
				AddRow("order-1", model.MetaWebhookAuthKey, "secret", now))

		order, err := store.GetOrder(ctx, "order-1")

		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, "ORD-1", order.OrderNumber)
		assert.Equal(t, "pay-1", order.Transaction.TransactionID)
		assert.Equal(t, model.PaymentStatusAuthorized, order.Transaction.PaymentStatus)
		assert.True(t, decimal.NewFromInt(250).Equal(order.Transaction.AmountAuthorized))
		assert.Equal(t, "secret", order.Metadata[model.MetaWebhookAuthKey])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT \* FROM "netseasy_orders"`).
			WillReturnRows(sqlmock.NewRows(orderColumns))

		order, err := store.GetOrder(ctx, "missing")

		require.NoError(t, err)
		assert.Nil(t, order)
	})
}

func TestOrderStore_SetMetadata(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts values", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`INSERT INTO "netseasy_transaction_metadata" .* ON CONFLICT \("order_id","key"\) DO UPDATE`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := store.SetMetadata(ctx, "order-1", map[string]string{
			model.MetaPaymentID: "pay-1",
			model.MetaChargeID:  "chg-1",
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty is a no-op", func(t *testing.T) {
		store, mock := newMockStore(t)

		require.NoError(t, store.SetMetadata(ctx, "order-1", nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderStore_ApplyTransaction(t *testing.T) {
	ctx := context.Background()
	amount := decimal.NewFromInt(250)

	t.Run("updates set fields", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE "netseasy_orders" SET .*"payment_status"=.*WHERE order_id = `).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.ApplyTransaction(ctx, "order-1", &model.TransactionUpdate{
			TransactionID:    "pay-1",
			AmountAuthorized: &amount,
			PaymentStatus:    model.PaymentStatusCaptured,
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown order", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE "netseasy_orders"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.ApplyTransaction(ctx, "missing", &model.TransactionUpdate{PaymentStatus: model.PaymentStatusCancelled})

		assert.ErrorContains(t, err, "not found")
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		store, mock := newMockStore(t)

		require.NoError(t, store.ApplyTransaction(ctx, "order-1", &model.TransactionUpdate{}))
		require.NoError(t, store.ApplyTransaction(ctx, "order-1", nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
