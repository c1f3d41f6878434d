package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
)

// ConsumerMessage читает очередь и вызывает handler не более чем для prefetch
// сообщений одновременно. Успешно обработанные сообщения подтверждаются.
// При ошибке сообщение возвращается в очередь один раз, повторная ошибка
// его отбрасывает. Возвращается после отмены ctx и завершения обработчиков.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("queue", queueName))
	sem := make(chan struct{}, prefetch)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				return fmt.Errorf("%s: delivery channel closed", op)
			}
			sem <- struct{}{}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				if err := handler(d.Body); err != nil {
					requeue := !d.Redelivered
					log.Error("failed to handle message", sl.Err(err), slog.Bool("requeue", requeue))
					if nackErr := d.Nack(false, requeue); nackErr != nil {
						log.Error("failed to nack message", sl.Err(nackErr))
					}
					return
				}
				if ackErr := d.Ack(false); ackErr != nil {
					log.Error("failed to ack message", sl.Err(ackErr))
				}
			}(d)
		case <-ctx.Done():
			return nil
		}
	}
}
