// Package admin реализует обработчики панели администратора: сводку,
// аналитику, заказы, товары, пользователей и подписки.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// ReportingService сводка и аналитика.
type ReportingService interface {
	Overview(ctx context.Context) (*models.Overview, error)
	Analytics(ctx context.Context, from, to time.Time) (*models.Analytics, error)
}

// OrderService заказы с точки зрения администратора.
type OrderService interface {
	List(ctx context.Context, status string, limit, offset int) ([]*models.OrderView, error)
	AdminCreate(ctx context.Context, req models.AdminOrderRequest) (*models.Order, error)
	UpdateStatus(ctx context.Context, adminID, orderID string, req models.StatusUpdateRequest) (*models.Order, error)
}

// ManagementService товары, пользователи и подписки.
type ManagementService interface {
	CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req models.ProductRequest) (*models.Product, error)
	RemoveProduct(ctx context.Context, id int64) error

	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateUser(ctx context.Context, adminID, userID string, upd models.UserUpdate) (*models.User, error)

	ListSubscriptions(ctx context.Context, userID string, limit, offset int) ([]*models.Subscription, error)
	DeactivateSubscription(ctx context.Context, id int64) error
}

// Handler обработчики панели администратора.
type Handler struct {
	log        *slog.Logger
	reporting  ReportingService
	orders     OrderService
	management ManagementService
	validate   *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, reporting ReportingService, orders OrderService, management ManagementService) *Handler {
	return &Handler{
		log:        log,
		reporting:  reporting,
		orders:     orders,
		management: management,
		validate:   validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
