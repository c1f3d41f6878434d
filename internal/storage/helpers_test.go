package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/pasto-verde/internal/migrations"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

const postgresPort = nat.Port("5432/tcp")

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, id, name, email string, role models.Role) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (id, name, email, role) VALUES ($1, $2, $3, $4)`,
		id, name, email, role)
	require.NoError(t, err)
}

// NewOrder собирает ожидающий оплаты заказ на товар из сида
func (f *TestDataFactory) NewOrder(id, userID, address string, total string) *models.Order {
	return &models.Order{
		ID:              id,
		UserID:          userID,
		ProductID:       1,
		Quantity:        1,
		PlanID:          "monthly",
		DeliveryAddress: address,
		DeliveryDate:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DeliveryWindow:  "AM (7am - 12pm)",
		Status:          models.OrderStatusPending,
		TotalPrice:      decimal.RequireFromString(total),
		PaymentStatus:   models.PaymentStatusPending,
	}
}

// SetOrderUpdatedAt сдвигает время последнего изменения заказа
func (f *TestDataFactory) SetOrderUpdatedAt(t *testing.T, id string, at time.Time) {
	_, err := f.storage.DB.Exec(`UPDATE orders SET updated_at = $2 WHERE id = $1`, id, at)
	require.NoError(t, err)
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// CountRows возвращает число строк в таблице
func (v *TestVerification) CountRows(t *testing.T, table string) int {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
	require.NoError(t, err)
	return count
}

// ProductStock возвращает остаток товара
func (v *TestVerification) ProductStock(t *testing.T, id int64) int {
	var stock int
	err := v.storage.DB.QueryRow("SELECT stock FROM products WHERE id = $1", id).Scan(&stock)
	require.NoError(t, err)
	return stock
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL и применяет миграции
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{string(postgresPort)},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(postgresPort),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3 * time.Minute),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err, "failed to get host")
	port, err := postgresContainer.MappedPort(ctx, postgresPort)
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath), "failed to apply migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
