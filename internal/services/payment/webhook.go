package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/metrics"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
	"github.com/magabrotheeeer/pasto-verde/internal/paymentprovider"
)

// ProcessWebhook проверяет подпись события PayPal и применяет его к заказу.
// Каждое событие применяется один раз: ID обработанных событий сохраняются.
// Ошибка хранилища возвращается, чтобы PayPal повторил доставку.
func (s *PaymentService) ProcessWebhook(ctx context.Context, headers paymentprovider.WebhookHeaders, body []byte) error {
	const op = "services.payment.ProcessWebhook"

	if err := s.provider.VerifyWebhook(ctx, headers, body); err != nil {
		metrics.RecordPayment(sourceWebhook, "rejected")
		return fmt.Errorf("%s: %w", op, err)
	}
	event, err := paymentprovider.ParseWebhookEvent(body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", event.ID),
		slog.String("event_type", event.EventType),
		sl.Order(event.Reference),
	)

	processed, err := s.repo.WebhookEventProcessed(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if processed {
		log.Debug("webhook event already processed")
		return nil
	}

	if err := s.apply(ctx, log, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.repo.RecordWebhookEvent(ctx, models.WebhookEvent{
		EventID:     event.ID,
		EventType:   event.EventType,
		ProcessedAt: s.now(),
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// apply меняет заказ по событию. Событие без заказа или с неверной суммой
// только логируется: повторная доставка его не исправит.
func (s *PaymentService) apply(ctx context.Context, log *slog.Logger, event *paymentprovider.WebhookEvent) error {
	switch event.EventType {
	case paymentprovider.EventCaptureCompleted, paymentprovider.EventCaptureDenied, paymentprovider.EventCaptureRefunded:
	default:
		log.Debug("ignoring webhook event")
		return nil
	}
	if event.Reference == "" {
		log.Warn("webhook event without order reference")
		return nil
	}

	order, err := s.repo.GetOrder(ctx, event.Reference)
	if apperr.Is(err, apperr.KindNotFound) {
		log.Warn("webhook event for unknown order")
		return nil
	}
	if err != nil {
		return err
	}

	switch event.EventType {
	case paymentprovider.EventCaptureCompleted:
		if err := s.check(order, paymentprovider.StatusCompleted, event.Reference,
			event.Amount.StringFixed(2), event.Currency); err != nil {
			metrics.RecordPayment(sourceWebhook, "rejected")
			log.Warn("webhook payment rejected", sl.Err(err))
			return nil
		}
		applied, err := s.repo.ConfirmPayment(ctx, models.PaymentTransaction{
			OrderID:           order.ID,
			Amount:            event.Amount,
			Currency:          event.Currency,
			TransactionDate:   s.now(),
			Status:            paymentprovider.StatusCompleted,
			PaymentMethod:     methodPayPal,
			ProviderReference: event.CaptureID,
		})
		if err != nil {
			return err
		}
		s.afterConfirm(ctx, log, order, sourceWebhook, applied)

	case paymentprovider.EventCaptureDenied:
		if order.PaymentStatus == models.PaymentStatusPaid {
			log.Warn("denied capture for paid order, keeping payment status")
			return nil
		}
		if err := s.repo.SetPaymentStatus(ctx, order.ID, models.PaymentStatusFailed); err != nil {
			return err
		}
		metrics.RecordPayment(sourceWebhook, "denied")
		log.Info("payment denied")

	case paymentprovider.EventCaptureRefunded:
		if err := s.repo.SetPaymentStatus(ctx, order.ID, models.PaymentStatusRefunded); err != nil {
			return err
		}
		metrics.RecordPayment(sourceWebhook, "refunded")
		log.Info("payment refunded")
	}
	return nil
}
