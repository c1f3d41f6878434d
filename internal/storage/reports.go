package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// AddressTotal адрес доставки и сумма заказа, для группировки по району.
type AddressTotal struct {
	Address string
	Total   decimal.Decimal
}

// Totals заполняет счетчики и выручку в сводке.
func (s *Storage) Totals(ctx context.Context) (*models.Overview, error) {
	const op = "storage.Totals"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	o := &models.Overview{}
	err := s.DB.QueryRowContext(ctx, `SELECT
			      (SELECT count(*) FROM users),
			      (SELECT count(*) FROM products),
			      (SELECT count(*) FROM orders),
			      (SELECT count(*) FROM subscriptions WHERE is_active),
			      (SELECT COALESCE(sum(total_price), 0) FROM orders)`).
		Scan(&o.TotalUsers, &o.TotalProducts, &o.TotalOrders, &o.ActiveSubscriptions, &o.TotalRevenue)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	return o, nil
}

// OrdersByStatus группирует заказы по статусу.
func (s *Storage) OrdersByStatus(ctx context.Context) ([]models.GroupCount, error) {
	const op = "storage.OrdersByStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT status, count(*), COALESCE(sum(total_price), 0)
			  FROM orders
			  GROUP BY status
			  ORDER BY count(*) DESC, status`)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	defer rows.Close()

	groups := make([]models.GroupCount, 0)
	for rows.Next() {
		var g models.GroupCount
		if err := rows.Scan(&g.Key, &g.Count, &g.Revenue); err != nil {
			return nil, wrap(op, err, "")
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err, "")
	}
	return groups, nil
}

// OrderAddressTotals возвращает адрес и сумму каждого заказа.
func (s *Storage) OrderAddressTotals(ctx context.Context) ([]AddressTotal, error) {
	const op = "storage.OrderAddressTotals"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT delivery_address, total_price FROM orders`)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	defer rows.Close()

	totals := make([]AddressTotal, 0)
	for rows.Next() {
		var a AddressTotal
		if err := rows.Scan(&a.Address, &a.Total); err != nil {
			return nil, wrap(op, err, "")
		}
		totals = append(totals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err, "")
	}
	return totals, nil
}

// RecentOrders возвращает последние limit заказов по дате создания.
func (s *Storage) RecentOrders(ctx context.Context, limit int) ([]*models.Order, error) {
	const op = "storage.RecentOrders"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders
			  ORDER BY created_at DESC
			  LIMIT $1`, limit)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	return orders, nil
}

// DailySales продажи по дням в полуинтервале [from, to).
func (s *Storage) DailySales(ctx context.Context, from, to time.Time) ([]*models.DailySales, error) {
	const op = "storage.DailySales"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT date_trunc('day', created_at) AS day,
			      count(*), COALESCE(sum(total_price), 0)
			  FROM orders
			  WHERE created_at >= $1 AND created_at < $2
			  GROUP BY day
			  ORDER BY day`, from, to)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	defer rows.Close()

	sales := make([]*models.DailySales, 0)
	for rows.Next() {
		d := &models.DailySales{}
		if err := rows.Scan(&d.Day, &d.Orders, &d.TotalSales); err != nil {
			return nil, wrap(op, err, "")
		}
		sales = append(sales, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err, "")
	}
	return sales, nil
}

// TopProducts товары с наибольшим проданным количеством за период.
func (s *Storage) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*models.TopProduct, error) {
	const op = "storage.TopProducts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT p.id, p.name, COALESCE(sum(o.quantity), 0),
			      COALESCE(sum(o.total_price), 0)
			  FROM orders o
			  JOIN products p ON p.id = o.product_id
			  WHERE o.created_at >= $1 AND o.created_at < $2
			  GROUP BY p.id, p.name
			  ORDER BY 3 DESC, p.id
			  LIMIT $3`, from, to, limit)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	defer rows.Close()

	top := make([]*models.TopProduct, 0)
	for rows.Next() {
		p := &models.TopProduct{}
		if err := rows.Scan(&p.ProductID, &p.Name, &p.TotalQuantity, &p.TotalRevenue); err != nil {
			return nil, wrap(op, err, "")
		}
		top = append(top, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err, "")
	}
	return top, nil
}

// NewUsersPerDay число регистраций по дням за период.
func (s *Storage) NewUsersPerDay(ctx context.Context, from, to time.Time) ([]*models.NewUsers, error) {
	const op = "storage.NewUsersPerDay"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT date_trunc('day', created_at) AS day, count(*)
			  FROM users
			  WHERE created_at >= $1 AND created_at < $2
			  GROUP BY day
			  ORDER BY day`, from, to)
	if err != nil {
		return nil, wrap(op, err, "")
	}
	defer rows.Close()

	users := make([]*models.NewUsers, 0)
	for rows.Next() {
		n := &models.NewUsers{}
		if err := rows.Scan(&n.Day, &n.Count); err != nil {
			return nil, wrap(op, err, "")
		}
		users = append(users, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err, "")
	}
	return users, nil
}
