// Package services содержит фоновые задачи: продвижение заказов по статусам
// и отключение истекших подписок.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/pasto-verde/internal/cache"
	"github.com/magabrotheeeer/pasto-verde/internal/config"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/metrics"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// Repository методы хранилища для фоновых задач.
type Repository interface {
	AdvanceOrders(ctx context.Context, from, to models.OrderStatus, olderThan time.Time) ([]models.OrderNotification, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// Publisher публикует уведомления о смене статуса.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Cache нужен для сброса сводки администратора.
type Cache interface {
	Invalidate(key string) error
}

// SchedulerService выполняет задачи по расписанию.
type SchedulerService struct {
	repo      Repository
	publisher Publisher
	cache     Cache
	cfg       config.Scheduler
	log       *slog.Logger
	now       func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo Repository, publisher Publisher, cache Cache, cfg config.Scheduler, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:      repo,
		publisher: publisher,
		cache:     cache,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// step автоматический переход статуса после простоя.
type step struct {
	from, to models.OrderStatus
	after    time.Duration
}

// AdvanceOrders переводит confirmed в shipped и shipped в delivered, если заказ
// не менялся дольше заданного времени. Ожидающие оплаты заказы не трогаются.
// Возвращает число переведенных заказов.
func (s *SchedulerService) AdvanceOrders(ctx context.Context) int {
	now := s.now()
	// сначала поздний шаг, чтобы заказ не прошел два шага за один запуск
	steps := []step{
		{from: models.OrderStatusShipped, to: models.OrderStatusDelivered, after: s.cfg.DeliveredAfter},
		{from: models.OrderStatusConfirmed, to: models.OrderStatusShipped, after: s.cfg.ShippedAfter},
	}

	total := 0
	for _, st := range steps {
		moved, err := s.repo.AdvanceOrders(ctx, st.from, st.to, now.Add(-st.after))
		if err != nil {
			s.log.Error("failed to advance orders",
				slog.String("from", string(st.from)), slog.String("to", string(st.to)), sl.Err(err))
			continue
		}
		if len(moved) == 0 {
			continue
		}
		s.log.Info("advanced orders",
			slog.String("from", string(st.from)), slog.String("to", string(st.to)), slog.Int("count", len(moved)))
		for _, n := range moved {
			metrics.RecordTransition(string(st.from), string(st.to), "scheduler")
			tracking := models.TrackingFor(n.Status)
			n.Label, n.Progress = tracking.Label, tracking.Progress
			if err := s.publisher.Publish(ctx, rabbitmq.RoutingKeyOrderStatus, n); err != nil {
				s.log.Error("failed to publish message", sl.Order(n.OrderID), sl.Err(err))
			}
		}
		total += len(moved)
	}

	if total > 0 {
		if err := s.cache.Invalidate(cache.KeyAdminOverview); err != nil {
			s.log.Warn("failed to invalidate overview", slog.String("key", cache.KeyAdminOverview), slog.Any("err", err))
		}
	}
	return total
}

// ExpireSubscriptions отключает подписки с прошедшей датой окончания.
func (s *SchedulerService) ExpireSubscriptions(ctx context.Context) int64 {
	n, err := s.repo.DeactivateExpired(ctx, s.now())
	if err != nil {
		s.log.Error("failed to deactivate expired subscriptions", sl.Err(err))
		return 0
	}
	if n > 0 {
		s.log.Info("deactivated expired subscriptions", slog.Int64("count", n))
		metrics.RecordSubscriptionsExpired(n)
		if err := s.cache.Invalidate(cache.KeyAdminOverview); err != nil {
			s.log.Warn("failed to invalidate overview", slog.String("key", cache.KeyAdminOverview), slog.Any("err", err))
		}
	}
	return n
}

// NewCron регистрирует задачи в планировщике cron. Задача пропускается,
// если предыдущий запуск еще не закончился.
func (s *SchedulerService) NewCron(ctx context.Context) (*cron.Cron, error) {
	const op = "services.scheduler.NewCron"

	logger := cron.PrintfLogger(slog.NewLogLogger(s.log.Handler(), slog.LevelInfo))
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(s.cfg.AdvanceSpec, func() { s.AdvanceOrders(ctx) }); err != nil {
		return nil, fmt.Errorf("%s: advance spec %q: %w", op, s.cfg.AdvanceSpec, err)
	}
	if _, err := c.AddFunc(s.cfg.ExpireSpec, func() { s.ExpireSubscriptions(ctx) }); err != nil {
		return nil, fmt.Errorf("%s: expire spec %q: %w", op, s.cfg.ExpireSpec, err)
	}
	return c, nil
}
