package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Storage{DB: db}, mock
}

func testOrder() *models.Order {
	return &models.Order{
		ID:              "ORD-11111",
		UserID:          "u1",
		ProductID:       1,
		Quantity:        1,
		PlanID:          "monthly",
		DeliveryAddress: "Casa 1, Centro",
		DeliveryDate:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DeliveryWindow:  "AM (7am - 12pm)",
		Status:          models.OrderStatusPending,
		TotalPrice:      decimal.RequireFromString("1080.00"),
		PaymentStatus:   models.PaymentStatusPending,
	}
}

func TestCreateOrderWithSubscription_RollbackOnSubscriptionFailure(t *testing.T) {
	s, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery("INSERT INTO subscriptions").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	sub := &models.Subscription{UserID: "u1", PlanName: "Suscripción Mensual", StartDate: now, IsActive: true}
	err := s.CreateOrderWithSubscription(context.Background(), testOrder(), sub)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPersistence))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderWithSubscription_IDCollision(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "orders_pkey"})
	mock.ExpectRollback()

	err := s.CreateOrderWithSubscription(context.Background(), testOrder(), nil)

	require.ErrorIs(t, err, ErrOrderIDTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderWithStock_InsufficientStock(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT stock FROM products WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(0))
	mock.ExpectRollback()

	err := s.CreateOrderWithStock(context.Background(), testOrder())

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderWithStock_Commits(t *testing.T) {
	s, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT stock FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(5))
	mock.ExpectExec("UPDATE products SET stock = stock - \\$2").
		WithArgs(int64(1), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	require.NoError(t, s.CreateOrderWithStock(context.Background(), testOrder()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_ReplayIsNoop(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO payment_transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	applied, err := s.ConfirmPayment(context.Background(), models.PaymentTransaction{
		OrderID: "ORD-11111", Amount: decimal.RequireFromString("43.20"), ProviderReference: "REF",
	})

	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery("UPDATE orders SET status").
		WithArgs("ORD-00000", models.OrderStatusShipped).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.UpdateOrderStatus(context.Background(), "ORD-00000", models.OrderStatusShipped)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CanceledContext(t *testing.T) {
	s, mock := newMockStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetOrder(ctx, "ORD-11111")

	require.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_KnownSubjectUpdatesEmail(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery("INSERT INTO users .* ON CONFLICT \\(id\\) DO UPDATE SET email = EXCLUDED.email").
		WithArgs("auth0|1", "Ana", "ana.nueva@example.com", "customer", "", nil).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))

	created, err := s.CreateUser(context.Background(), models.User{
		ID: "auth0|1", Name: "Ana", Email: "ana.nueva@example.com", Role: models.RoleCustomer,
	})

	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}
