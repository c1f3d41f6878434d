package rabbitmq

// ExchangeNotifications direct-обменник для всех уведомлений.
const ExchangeNotifications = "notifications"

// Ключи маршрутизации уведомлений.
const (
	RoutingKeyWelcome     = "welcome"
	RoutingKeyOrderStatus = "order_status"
)

// prefetch сколько неподтвержденных сообщений брокер отдает одному потребителю.
const prefetch = 10

// QueueConfig очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues очереди, которые читает отправитель писем.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.welcome", RoutingKey: RoutingKeyWelcome},
		{QueueName: "notification.order_status", RoutingKey: RoutingKeyOrderStatus},
	}
}
