// Package paymentprovider клиент PayPal: получение заказа после оплаты
// и проверка подписи webhook. Токен доступа выдается по client credentials.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/magabrotheeeer/pasto-verde/internal/config"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
)

const requestTimeout = 15 * time.Second

// Client клиент REST API PayPal.
type Client struct {
	apiURL     string
	webhookID  string
	httpClient *http.Client
}

// NewClient создаёт клиент PayPal. ctx используется для получения токенов.
func NewClient(ctx context.Context, cfg config.PayPal) *Client {
	apiURL := strings.TrimSuffix(cfg.APIURL, "/")
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     apiURL + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: requestTimeout})
	httpClient := creds.Client(ctx)
	httpClient.Timeout = requestTimeout

	return &Client{
		apiURL:     apiURL,
		webhookID:  cfg.WebhookID,
		httpClient: httpClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, 0, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

// GetOrder получает заказ PayPal по ID.
func (c *Client) GetOrder(ctx context.Context, providerOrderID string) (*Order, error) {
	const op = "paymentprovider.GetOrder"

	data, status, err := c.do(ctx, http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(providerOrderID), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.External("paypal", err))
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("paypal order not found"))
	case status != http.StatusOK:
		return nil, fmt.Errorf("%s: %w", op, apperr.External("paypal", fmt.Errorf("unexpected status %d", status)))
	}

	order, err := parseOrder(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.External("paypal", err))
	}
	return order, nil
}

func parseOrder(data []byte) (*Order, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid json")
	}
	doc := gjson.ParseBytes(data)
	unit := doc.Get("purchase_units.0")
	if !unit.Exists() {
		return nil, errors.New("order without purchase units")
	}

	amount := unit.Get("payments.captures.0.amount")
	if !amount.Exists() {
		amount = unit.Get("amount")
	}
	value, err := decimal.NewFromString(amount.Get("value").String())
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	ref := unit.Get("custom_id").String()
	if ref == "" {
		ref = unit.Get("reference_id").String()
	}

	return &Order{
		ID:        doc.Get("id").String(),
		Status:    doc.Get("status").String(),
		Amount:    value,
		Currency:  amount.Get("currency_code").String(),
		Reference: ref,
		CaptureID: unit.Get("payments.captures.0.id").String(),
	}, nil
}

// VerifyWebhook проверяет подпись webhook через API PayPal.
func (c *Client) VerifyWebhook(ctx context.Context, headers WebhookHeaders, body []byte) error {
	const op = "paymentprovider.VerifyWebhook"
	if c.webhookID == "" {
		return fmt.Errorf("%s: %w", op, apperr.Forbidden("webhook id is not configured"))
	}
	if !json.Valid(body) {
		return fmt.Errorf("%s: %w", op, apperr.Validation("invalid webhook body"))
	}

	data, status, err := c.do(ctx, http.MethodPost, "/v1/notifications/verify-webhook-signature", verifyRequest{
		AuthAlgo:         headers.AuthAlgo,
		CertURL:          headers.CertURL,
		TransmissionID:   headers.TransmissionID,
		TransmissionSig:  headers.TransmissionSig,
		TransmissionTime: headers.TransmissionTime,
		WebhookID:        c.webhookID,
		WebhookEvent:     json.RawMessage(body),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, apperr.External("paypal", err))
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s: %w", op, apperr.External("paypal", fmt.Errorf("unexpected status %d", status)))
	}
	if gjson.GetBytes(data, "verification_status").String() != "SUCCESS" {
		return fmt.Errorf("%s: %w", op, apperr.Forbidden("invalid webhook signature"))
	}
	return nil
}

// HeadersFromRequest извлекает заголовки подписи webhook.
func HeadersFromRequest(r *http.Request) WebhookHeaders {
	return WebhookHeaders{
		TransmissionID:   r.Header.Get("Paypal-Transmission-Id"),
		TransmissionTime: r.Header.Get("Paypal-Transmission-Time"),
		TransmissionSig:  r.Header.Get("Paypal-Transmission-Sig"),
		CertURL:          r.Header.Get("Paypal-Cert-Url"),
		AuthAlgo:         r.Header.Get("Paypal-Auth-Algo"),
	}
}

// ParseWebhookEvent разбирает тело webhook о захвате платежа.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	const op = "paymentprovider.ParseWebhookEvent"
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("invalid webhook body"))
	}
	doc := gjson.ParseBytes(body)
	event := &WebhookEvent{
		ID:        doc.Get("id").String(),
		EventType: doc.Get("event_type").String(),
		CaptureID: doc.Get("resource.id").String(),
		Reference: doc.Get("resource.custom_id").String(),
		Currency:  doc.Get("resource.amount.currency_code").String(),
	}
	if event.ID == "" || event.EventType == "" {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("webhook without id or type"))
	}
	if v := doc.Get("resource.amount.value"); v.Exists() {
		amount, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, apperr.Validation("invalid amount"))
		}
		event.Amount = amount
	}
	return event, nil
}
