// Package payment подтверждает оплату заказов через PayPal. Заказ покидает
// статус pending только после того, как сервер сам получил платеж у
// провайдера и сверил сумму и ссылку на заказ.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/pasto-verde/internal/cache"
	"github.com/magabrotheeeer/pasto-verde/internal/catalog"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/metrics"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
	"github.com/magabrotheeeer/pasto-verde/internal/paymentprovider"
)

const (
	currencyUSD   = "USD"
	methodPayPal  = "paypal"
	sourceClient  = "client"
	sourceWebhook = "webhook"
)

// Repository методы хранилища для платежей.
type Repository interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ConfirmPayment(ctx context.Context, payment models.PaymentTransaction) (bool, error)
	SetPaymentStatus(ctx context.Context, orderID string, status models.PaymentStatus) error
	WebhookEventProcessed(ctx context.Context, eventID string) (bool, error)
	RecordWebhookEvent(ctx context.Context, event models.WebhookEvent) (bool, error)
}

// Provider клиент платежного провайдера.
type Provider interface {
	GetOrder(ctx context.Context, providerOrderID string) (*paymentprovider.Order, error)
	VerifyWebhook(ctx context.Context, headers paymentprovider.WebhookHeaders, body []byte) error
}

// Cache нужен для сброса сводки администратора.
type Cache interface {
	Invalidate(key string) error
}

// Publisher публикует уведомления о смене статуса.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// PaymentService проверяет платежи и подтверждает заказы.
type PaymentService struct {
	repo      Repository
	provider  Provider
	cache     Cache
	publisher Publisher
	usdRate   float64
	log       *slog.Logger
	now       func() time.Time
}

// New создает новый экземпляр PaymentService.
func New(repo Repository, provider Provider, cache Cache, publisher Publisher, usdRate float64, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:      repo,
		provider:  provider,
		cache:     cache,
		publisher: publisher,
		usdRate:   usdRate,
		log:       log,
		now:       time.Now,
	}
}

// ConfirmPayment проверяет у PayPal заказ, оплаченный покупателем, и
// подтверждает заказ магазина. Повторное подтверждение ничего не меняет.
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID, orderID string, req models.PaymentConfirmRequest) (*models.Order, error) {
	const op = "services.payment.ConfirmPayment"
	log := s.log.With(slog.String("op", op), sl.Order(orderID), slog.String("correlation_id", uuid.NewString()))

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, apperr.NotFound("order not found"))
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, fmt.Errorf("%s: %w", op, apperr.Conflict("order is cancelled"))
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		log.Info("order already paid")
		return order, nil
	}

	ppOrder, err := s.provider.GetOrder(ctx, req.ProviderOrderID)
	if err != nil {
		metrics.RecordPayment(sourceClient, "error")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.check(order, ppOrder.Status, ppOrder.Reference, ppOrder.Amount.StringFixed(2), ppOrder.Currency); err != nil {
		metrics.RecordPayment(sourceClient, "rejected")
		log.Warn("payment rejected", slog.String("provider_order_id", ppOrder.ID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reference := ppOrder.CaptureID
	if reference == "" {
		reference = ppOrder.ID
	}
	applied, err := s.repo.ConfirmPayment(ctx, models.PaymentTransaction{
		OrderID:           order.ID,
		Amount:            ppOrder.Amount,
		Currency:          ppOrder.Currency,
		TransactionDate:   s.now(),
		Status:            ppOrder.Status,
		PaymentMethod:     methodPayPal,
		ProviderReference: reference,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.afterConfirm(ctx, log, order, sourceClient, applied)

	confirmed, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return confirmed, nil
}

// check сверяет статус, ссылку на заказ и сумму платежа в долларах.
func (s *PaymentService) check(order *models.Order, status, reference, amount, currency string) error {
	if status != paymentprovider.StatusCompleted {
		return apperr.Conflict("payment is not completed")
	}
	if reference != order.ID {
		return apperr.Validation("payment does not belong to this order")
	}
	expected := catalog.ToUSD(order.TotalPrice, s.usdRate).StringFixed(2)
	if currency != currencyUSD || amount != expected {
		return apperr.Validation(fmt.Sprintf("payment amount mismatch: expected %s %s", expected, currencyUSD))
	}
	return nil
}

func (s *PaymentService) afterConfirm(ctx context.Context, log *slog.Logger, order *models.Order, source string, applied bool) {
	if !applied {
		metrics.RecordPayment(source, "replay")
		log.Info("payment already recorded")
		return
	}
	metrics.RecordPayment(source, "verified")
	log.Info("payment verified")

	if order.Status != models.OrderStatusPending {
		return
	}
	metrics.RecordTransition(string(models.OrderStatusPending), string(models.OrderStatusConfirmed), "payment")
	if err := s.cache.Invalidate(cache.KeyAdminOverview); err != nil {
		log.Warn("failed to invalidate overview", slog.String("key", cache.KeyAdminOverview), slog.Any("err", err))
	}

	user, err := s.repo.GetUser(ctx, order.UserID)
	if err != nil {
		log.Warn("failed to load order owner for notification", sl.Err(err))
		return
	}
	tracking := models.TrackingFor(models.OrderStatusConfirmed)
	err = s.publisher.Publish(ctx, rabbitmq.RoutingKeyOrderStatus, models.OrderNotification{
		OrderID:  order.ID,
		Email:    user.Email,
		Name:     user.Name,
		Status:   models.OrderStatusConfirmed,
		Label:    tracking.Label,
		Progress: tracking.Progress,
	})
	if err != nil {
		log.Warn("failed to publish status notification", sl.Err(err))
	}
}
