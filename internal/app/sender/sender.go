// Package sender читает очереди уведомлений и отправляет письма.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/pasto-verde/internal/config"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/pasto-verde/internal/services/sender"
)

// App представляет приложение рассылки.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к RabbitMQ и готовит SMTP-транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run читает очереди до отмены ctx. Если один потребитель падает,
// остальные останавливаются.
func (a *App) Run(ctx context.Context) error {
	handlers := map[string]func([]byte) error{
		rabbitmq.RoutingKeyWelcome:     a.senderService.SendWelcome,
		rabbitmq.RoutingKeyOrderStatus: a.senderService.SendOrderStatus,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, q := range rabbitmq.GetNotificationQueues() {
		handler, ok := handlers[q.RoutingKey]
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := rabbitmq.ConsumerMessage(gctx, a.logger, a.ch, q.QueueName, handler); err != nil {
				a.logger.Error("consumer stopped", slog.String("queue", q.QueueName), sl.Err(err))
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return err
}
