package paymentprovider

import (
	"github.com/shopspring/decimal"
)

// Статусы PayPal, которые различает магазин.
const (
	StatusCompleted = "COMPLETED"

	EventCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
	EventCaptureDenied    = "PAYMENT.CAPTURE.DENIED"
	EventCaptureRefunded  = "PAYMENT.CAPTURE.REFUNDED"
)

// Order заказ PayPal после оплаты.
type Order struct {
	ID string
	// Status статус заказа PayPal (COMPLETED после захвата платежа).
	Status   string
	Amount   decimal.Decimal
	Currency string
	// Reference ID заказа магазина из custom_id или reference_id.
	Reference string
	CaptureID string
}

// WebhookEvent событие webhook о захвате платежа.
type WebhookEvent struct {
	ID        string
	EventType string
	CaptureID string
	// Reference ID заказа магазина из custom_id ресурса.
	Reference string
	Amount    decimal.Decimal
	Currency  string
}

// WebhookHeaders заголовки подписи webhook.
type WebhookHeaders struct {
	TransmissionID   string
	TransmissionTime string
	TransmissionSig  string
	CertURL          string
	AuthAlgo         string
}

// verifyRequest тело запроса verify-webhook-signature.
type verifyRequest struct {
	AuthAlgo         string `json:"auth_algo"`
	CertURL          string `json:"cert_url"`
	TransmissionID   string `json:"transmission_id"`
	TransmissionSig  string `json:"transmission_sig"`
	TransmissionTime string `json:"transmission_time"`
	WebhookID        string `json:"webhook_id"`
	WebhookEvent     any    `json:"webhook_event"`
}
