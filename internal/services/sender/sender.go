// Package services содержит отправку писем по уведомлениям из очереди.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"

	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/smtp"
	"github.com/magabrotheeeer/pasto-verde/internal/metrics"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

const (
	maxSendAttempts = 3

	emailWelcome     = "welcome"
	emailOrderStatus = "order_status"
)

const welcomeBody = `Hola %s,

¡Bienvenido a Pasto Verde! Gracias por registrarte en nuestra plataforma.

Estamos emocionados de tenerte con nosotros y esperamos que disfrutes de nuestros servicios de entrega de pasto fresco para tus mascotas.

Si tienes alguna pregunta, no dudes en contactarnos.

¡Que tengas un gran día!

El equipo de Pasto Verde`

const orderStatusBody = `Hola %s,

El estado de tu orden %s cambió: %s (%d%%).

Puedes seguir tu pedido en la sección "Mis órdenes".

El equipo de Pasto Verde`

// SenderService отправляет письма через SMTP.
type SenderService struct {
	transport  smtp.TransportInterface
	log        *slog.Logger
	newBackOff func() backoff.BackOff
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// SendWelcome отправляет приветственное письмо новому пользователю.
func (s *SenderService) SendWelcome(body []byte) error {
	var message models.WelcomeNotification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if message.Email == "" {
		return fmt.Errorf("welcome message without email")
	}

	return s.send(emailWelcome, smtp.Message{
		To:      message.Email,
		Subject: "Welcome to Pasto Verde!",
		Body:    fmt.Sprintf(welcomeBody, message.Name),
	})
}

// SendOrderStatus сообщает покупателю о новом статусе заказа.
func (s *SenderService) SendOrderStatus(body []byte) error {
	var message models.OrderNotification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if message.Email == "" {
		return fmt.Errorf("order status message without email")
	}
	if message.Label == "" {
		tracking := models.TrackingFor(message.Status)
		message.Label, message.Progress = tracking.Label, tracking.Progress
	}

	return s.send(emailOrderStatus, smtp.Message{
		To:      message.Email,
		Subject: fmt.Sprintf("Pasto Verde: %s %s", message.Label, message.OrderID),
		Body:    fmt.Sprintf(orderStatusBody, message.Name, message.OrderID, message.Label, message.Progress),
	})
}

// send повторяет отправку с экспоненциальной задержкой, всего до трех попыток.
func (s *SenderService) send(emailType string, msg smtp.Message) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := smtp.Send(s.transport, msg)
		if err != nil {
			s.log.Warn("failed to send email", slog.String("type", emailType), slog.Int("attempt", attempt), sl.Err(err))
		}
		return err
	}

	err := backoff.Retry(operation, backoff.WithMaxRetries(s.newBackOff(), maxSendAttempts-1))
	if err != nil {
		metrics.RecordEmail(emailType, "failed")
		s.log.Error("giving up on email", slog.String("type", emailType), slog.String("to", msg.To), sl.Err(err))
		return err
	}
	metrics.RecordEmail(emailType, "sent")
	s.log.Info("email sent successfully", slog.String("type", emailType), slog.String("to", msg.To))
	return nil
}
