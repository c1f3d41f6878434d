package pastoverde

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/pasto-verde/internal/cache"
	"github.com/magabrotheeeer/pasto-verde/internal/config"
	"github.com/magabrotheeeer/pasto-verde/internal/geocoding"
	adminhandler "github.com/magabrotheeeer/pasto-verde/internal/http/handlers/admin"
	authhandler "github.com/magabrotheeeer/pasto-verde/internal/http/handlers/auth"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/driver"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/health"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/orders"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/storefront"
	"github.com/magabrotheeeer/pasto-verde/internal/http/handlers/webhook"
	"github.com/magabrotheeeer/pasto-verde/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pasto-verde/internal/identity"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/jwt"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/migrations"
	"github.com/magabrotheeeer/pasto-verde/internal/paymentprovider"
	adminservice "github.com/magabrotheeeer/pasto-verde/internal/services/admin"
	authservice "github.com/magabrotheeeer/pasto-verde/internal/services/auth"
	orderservice "github.com/magabrotheeeer/pasto-verde/internal/services/order"
	"github.com/magabrotheeeer/pasto-verde/internal/services/payment"
	reportingservice "github.com/magabrotheeeer/pasto-verde/internal/services/reporting"
	"github.com/magabrotheeeer/pasto-verde/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App HTTP API магазина вместе с подключениями к хранилищам.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New подключается к базе, Redis и RabbitMQ, применяет миграции
// и собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		db.Close()
		cacheRedis.Close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		db.Close()
		cacheRedis.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, identity.NewVerifier(cfg.Identity), jwtMaker,
		cacheRedis, publisher, cfg.Identity.AdminEmail, logger)
	orderService := orderservice.NewOrderService(db, cacheRedis, publisher, orderservice.Options{
		GrassProductID: cfg.Checkout.GrassProductID,
		PromoCode:      cfg.Checkout.PromoCode,
		USDRate:        cfg.PayPal.USDRate,
	}, logger)
	paymentService := payment.New(db, paymentprovider.NewClient(ctx, cfg.PayPal), cacheRedis, publisher, cfg.PayPal.USDRate, logger)
	reportingService := reportingservice.NewReportingService(db, cacheRedis, logger)
	adminService := adminservice.NewAdminService(db, cacheRedis, logger)

	handlers := Handlers{
		Auth:       authhandler.New(logger, authService),
		Storefront: storefront.New(logger, geocoding.New(cfg.Geocoding, cacheRedis, logger)),
		Orders:     orders.New(logger, orderService, paymentService),
		Webhook:    webhook.New(logger, paymentService),
		Driver:     driver.New(logger, orderService),
		Admin:      adminhandler.New(logger, reportingService, orderService, adminService),
		Health: health.New(logger, map[string]health.CheckFunc{
			"postgres": db.CheckDatabaseReady,
			"redis":    cacheRedis.Ping,
			"rabbitmq": func(context.Context) error {
				if conn.IsClosed() {
					return errors.New("connection closed")
				}
				return nil
			},
		}),
	}

	router := chi.NewRouter()
	limiter := middlewarectx.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	RegisterRoutes(router, logger, handlers, authService, limiter)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
