package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTransaction подтвержденный на сервере платеж по заказу.
type PaymentTransaction struct {
	ID                int64           `json:"id"`
	OrderID           string          `json:"order_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	TransactionDate   time.Time       `json:"transaction_date"`
	Status            string          `json:"status"`
	PaymentMethod     string          `json:"payment_method"`
	ProviderReference string          `json:"provider_reference"`
}

// PaymentConfirmRequest клиент сообщает идентификатор заказа PayPal после оплаты.
type PaymentConfirmRequest struct {
	ProviderOrderID string `json:"provider_order_id" validate:"required,alphanum"`
}

// WebhookEvent обработанное событие платежного провайдера.
type WebhookEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	ProcessedAt time.Time `json:"processed_at"`
}
