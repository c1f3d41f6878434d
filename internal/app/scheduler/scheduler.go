// Package scheduler запускает фоновые задачи: продвижение заказов по статусам
// и истечение подписок.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/pasto-verde/internal/cache"
	"github.com/magabrotheeeer/pasto-verde/internal/config"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	schedulerservice "github.com/magabrotheeeer/pasto-verde/internal/services/scheduler"
	"github.com/magabrotheeeer/pasto-verde/internal/storage"
)

const (
	dbReadyAttempts = 10
	dbReadyDelay    = 3 * time.Second
)

// App представляет приложение планировщика.
type App struct {
	cron   *cron.Cron
	db     *storage.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger
}

// waitForDB ждёт, пока основной сервис применит миграции.
func waitForDB(ctx context.Context, db *storage.Storage) error {
	for range dbReadyAttempts {
		if err := db.CheckDatabaseReady(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dbReadyDelay):
		}
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		db.Close()
		closeResources(ch, conn, logger)
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		db.Close()
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	schedulerService := schedulerservice.NewSchedulerService(db, rabbitmq.NewPublisher(ch), cacheRedis, cfg.Scheduler, logger)
	c, err := schedulerService.NewCron(ctx)
	if err != nil {
		db.Close()
		cacheRedis.Close()
		closeResources(ch, conn, logger)
		return nil, err
	}

	return &App{
		cron:   c,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
		logger: logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает планировщик и ждёт завершения текущих задач после отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.cron.Start()
	a.logger.Info("scheduler started", slog.Int("jobs", len(a.cron.Entries())))

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	<-a.cron.Stop().Done()

	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
	closeResources(a.ch, a.conn, a.logger)

	return nil
}
