package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus состояние заказа.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus состояние оплаты заказа.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Valid сообщает, известен ли статус.
func (s OrderStatus) Valid() bool {
	_, ok := statusStep[s]
	return ok
}

// Terminal сообщает, что из статуса нет обычных переходов.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// statusStep порядковый номер статуса в жизненном цикле, cancelled вне цепочки.
var statusStep = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusConfirmed: 1,
	OrderStatusShipped:   2,
	OrderStatusDelivered: 3,
	OrderStatusCompleted: 4,
	OrderStatusCancelled: -1,
}

// CanTransitionTo проверяет переход без принудительного режима:
// только на один шаг вперед или отмена из нетерминального статуса.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return statusStep[next] == statusStep[s]+1
}

// Order заказ покупателя. TotalPrice вычисляется один раз при создании.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	ProductID       int64           `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PlanID          string          `json:"plan_id"`
	DeliveryAddress string          `json:"delivery_address"`
	DeliveryDate    time.Time       `json:"delivery_date"`
	DeliveryWindow  string          `json:"delivery_window"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
	DeliveryZone    *string         `json:"delivery_zone,omitempty"`
	Status          OrderStatus     `json:"status"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	TransactionID   *string         `json:"transaction_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Tracking отображение статуса заказа для покупателя.
type Tracking struct {
	Label    string `json:"label"`
	Progress int    `json:"progress"`
}

var trackingByStatus = map[OrderStatus]Tracking{
	OrderStatusPending:   {Label: "Pago Pendiente", Progress: 0},
	OrderStatusConfirmed: {Label: "Orden Confirmada", Progress: 33},
	OrderStatusShipped:   {Label: "Orden Enviada", Progress: 66},
	OrderStatusDelivered: {Label: "Orden Entregada", Progress: 100},
	OrderStatusCompleted: {Label: "Orden Completada", Progress: 100},
	OrderStatusCancelled: {Label: "Orden Cancelada", Progress: 0},
}

// TrackingFor возвращает подпись и прогресс для статуса.
func TrackingFor(s OrderStatus) Tracking {
	if t, ok := trackingByStatus[s]; ok {
		return t
	}
	return Tracking{Label: "Desconocido", Progress: 0}
}

// OrderView заказ вместе с отображением статуса.
type OrderView struct {
	Order
	Tracking Tracking              `json:"tracking"`
	Payments []*PaymentTransaction `json:"payments,omitempty"`
}

// CheckoutRequest используется для приёма данных оформления заказа из JSON-запроса.
// Дата доставки приходит строкой в формате 2006-01-02.
type CheckoutRequest struct {
	PlanID         string   `json:"plan_id" validate:"required,max=100"`
	Street         string   `json:"street" validate:"required,max=300"`
	Area           string   `json:"area" validate:"required,max=300"`
	References     string   `json:"references" validate:"max=500"`
	Latitude       *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	DeliveryDate   string   `json:"delivery_date" validate:"required"`
	DeliveryWindow string   `json:"delivery_window" validate:"required"`
	PromoCode      string   `json:"promo_code" validate:"max=32"`
}

// QuoteRequest запрос расчета стоимости без создания заказа.
type QuoteRequest struct {
	PlanID    string `json:"plan_id" validate:"required,max=100"`
	PromoCode string `json:"promo_code" validate:"max=32"`
}

// Quote рассчитанная стоимость заказа.
type Quote struct {
	PlanID     string          `json:"plan_id"`
	PlanName   string          `json:"plan_name"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	TotalUSD   decimal.Decimal `json:"total_usd"`
	PromoValid bool            `json:"promo_valid"`
}

// AdminOrderRequest заказ, созданный администратором напрямую по товару.
type AdminOrderRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	ProductID       int64  `json:"product_id" validate:"required,gt=0"`
	Quantity        int    `json:"quantity" validate:"required,gt=0"`
	DeliveryAddress string `json:"delivery_address" validate:"required,max=1000"`
	DeliveryDate    string `json:"delivery_date" validate:"required"`
}

// StatusUpdateRequest смена статуса заказа администратором.
type StatusUpdateRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed shipped delivered completed cancelled"`
	Force  bool        `json:"force"`
}

// CheckoutResult созданный заказ и, для подписочных планов, подписка.
type CheckoutResult struct {
	Order        *Order        `json:"order"`
	Subscription *Subscription `json:"subscription,omitempty"`
	TotalUSD     string        `json:"total_usd"`
}

// OrderNotification сообщение о смене статуса для рассылки.
type OrderNotification struct {
	OrderID  string      `json:"order_id"`
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Status   OrderStatus `json:"status"`
	Label    string      `json:"label"`
	Progress int         `json:"progress"`
}

// WelcomeNotification сообщение для приветственного письма.
type WelcomeNotification struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
