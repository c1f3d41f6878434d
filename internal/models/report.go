package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Overview сводка для панели администратора.
type Overview struct {
	TotalUsers          int             `json:"total_users"`
	TotalProducts       int             `json:"total_products"`
	TotalOrders         int             `json:"total_orders"`
	ActiveSubscriptions int             `json:"active_subscriptions"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	OrdersByStatus      []GroupCount    `json:"orders_by_status"`
	OrdersByArea        []GroupCount    `json:"orders_by_area"`
	RecentOrders        []*Order        `json:"recent_orders"`
}

// GroupCount количество заказов и выручка по ключу группировки.
type GroupCount struct {
	Key     string          `json:"key"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DailySales продажи за день.
type DailySales struct {
	Day        time.Time       `json:"day"`
	Orders     int             `json:"orders"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// TopProduct товар с наибольшим количеством продаж.
type TopProduct struct {
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// NewUsers количество регистраций за день.
type NewUsers struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// Analytics аналитика за период.
type Analytics struct {
	From        time.Time     `json:"from"`
	To          time.Time     `json:"to"`
	DailySales  []*DailySales `json:"daily_sales"`
	TopProducts []*TopProduct `json:"top_products"`
	NewUsers    []*NewUsers   `json:"new_users"`
}
