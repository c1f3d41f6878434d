package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

const orderColumns = `id, user_id, product_id, quantity, plan_id, delivery_address, delivery_date,
			      delivery_window, latitude, longitude, delivery_zone, status, total_price,
			      payment_status, transaction_id, created_at, updated_at`

func scanOrder(row scanner) (*models.Order, error) {
	o := &models.Order{}
	var productID sql.NullInt64
	var lat, lon sql.NullFloat64
	var zone, txID sql.NullString
	if err := row.Scan(&o.ID, &o.UserID, &productID, &o.Quantity, &o.PlanID, &o.DeliveryAddress,
		&o.DeliveryDate, &o.DeliveryWindow, &lat, &lon, &zone, &o.Status, &o.TotalPrice,
		&o.PaymentStatus, &txID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.ProductID = productID.Int64
	o.Latitude = floatPtr(lat)
	o.Longitude = floatPtr(lon)
	o.DeliveryZone = stringPtr(zone)
	o.TransactionID = stringPtr(txID)
	return o, nil
}

func scanOrders(rows *sql.Rows) ([]*models.Order, error) {
	defer rows.Close()
	orders := make([]*models.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const insertOrderQuery = `INSERT INTO orders (id, user_id, product_id, quantity, plan_id,
			      delivery_address, delivery_date, delivery_window, latitude, longitude,
			      delivery_zone, status, total_price, payment_status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING created_at, updated_at`

func insertOrder(ctx context.Context, tx *sql.Tx, o *models.Order) error {
	err := tx.QueryRowContext(ctx, insertOrderQuery,
		o.ID, o.UserID, o.ProductID, o.Quantity, o.PlanID, o.DeliveryAddress, o.DeliveryDate,
		o.DeliveryWindow, nullFloat(o.Latitude), nullFloat(o.Longitude), nullString(o.DeliveryZone),
		o.Status, o.TotalPrice, o.PaymentStatus).Scan(&o.CreatedAt, &o.UpdatedAt)
	if isUniqueViolation(err, "orders_pkey") {
		return ErrOrderIDTaken
	}
	return err
}

// CreateOrderWithSubscription сохраняет заказ и, если sub не nil, подписку
// в одной транзакции. При совпадении ID заказа возвращает ErrOrderIDTaken.
func (s *Storage) CreateOrderWithSubscription(ctx context.Context, order *models.Order, sub *models.Subscription) error {
	const op = "storage.CreateOrderWithSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertOrder(ctx, tx, order); err != nil {
			return err
		}
		if sub == nil {
			return nil
		}
		query := `INSERT INTO subscriptions (user_id, plan_name, start_date, end_date, is_active)
				  VALUES ($1, $2, $3, $4, $5)
				  RETURNING id`
		return tx.QueryRowContext(ctx, query,
			sub.UserID, sub.PlanName, sub.StartDate, sub.EndDate, sub.IsActive).Scan(&sub.ID)
	})
	if err != nil {
		return wrap(op, err, "")
	}
	return nil
}

// CreateOrderWithStock блокирует строку товара, проверяет остаток, списывает
// количество и сохраняет заказ в одной транзакции.
func (s *Storage) CreateOrderWithStock(ctx context.Context, order *models.Order) error {
	const op = "storage.CreateOrderWithStock"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var stock int
		err := tx.QueryRowContext(ctx,
			`SELECT stock FROM products WHERE id = $1 FOR UPDATE`, order.ProductID).Scan(&stock)
		if err != nil {
			return err
		}
		if stock < order.Quantity {
			return apperr.Conflict(fmt.Sprintf("insufficient stock: %d available", stock))
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1`,
			order.ProductID, order.Quantity); err != nil {
			return err
		}
		return insertOrder(ctx, tx, order)
	})
	if err != nil {
		return wrap(op, err, "product not found")
	}
	return nil
}

// GetOrder возвращает заказ по ID.
func (s *Storage) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	const op = "storage.GetOrder"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrap(op, err, "order not found")
	}
	return o, nil
}

// ListOrdersByUser возвращает заказы пользователя, новые первыми.
func (s *Storage) ListOrdersByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	const op = "storage.ListOrdersByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders
			  WHERE user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	return orders, nil
}

// ListOrders возвращает заказы с необязательным фильтром по статусу.
func (s *Storage) ListOrders(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders
			  WHERE ($1 = '' OR status = $1)
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	return orders, nil
}

// ListDeliverableOrders возвращает заказы, которые курьер может взять в работу.
func (s *Storage) ListDeliverableOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "storage.ListDeliverableOrders"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders
			  WHERE status IN ('confirmed', 'shipped')
			  ORDER BY delivery_date, created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	return orders, nil
}

// UpdateOrderStatus записывает новый статус заказа. Допустимость перехода
// проверяет вызывающий код.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	const op = "storage.UpdateOrderStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE orders SET status = $2, updated_at = now()
			  WHERE id = $1
			  RETURNING ` + orderColumns
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query, id, status))
	if err != nil {
		return nil, wrap(op, err, "order not found")
	}
	return o, nil
}

// AdvanceOrders переводит заказы из from в to, если они не менялись дольше
// чем до olderThan, и возвращает получателей уведомлений.
func (s *Storage) AdvanceOrders(ctx context.Context, from, to models.OrderStatus, olderThan time.Time) ([]models.OrderNotification, error) {
	const op = "storage.AdvanceOrders"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `WITH moved AS (
			      UPDATE orders SET status = $2, updated_at = now()
			      WHERE status = $1 AND updated_at < $3
			      RETURNING id, user_id
			  )
			  SELECT moved.id, u.email, u.name
			  FROM moved JOIN users u ON u.id = moved.user_id
			  ORDER BY moved.id`
	rows, err := s.DB.QueryContext(ctx, query, from, to, olderThan)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	defer rows.Close()

	moved := make([]models.OrderNotification, 0)
	for rows.Next() {
		n := models.OrderNotification{Status: to}
		if err := rows.Scan(&n.OrderID, &n.Email, &n.Name); err != nil {
			return nil, wrap(op, err, "")
		}
		moved = append(moved, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err, "")
	}
	return moved, nil
}
