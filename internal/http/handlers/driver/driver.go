// Package driver реализует обработчики курьера: список заказов к доставке
// и отметку о доставке.
package driver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pasto-verde/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pasto-verde/internal/http/response"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// Service описывает операции курьера над заказами.
type Service interface {
	ListDeliverable(ctx context.Context) ([]*models.OrderView, error)
	DriverDeliver(ctx context.Context, driverID, orderID string) (*models.Order, error)
}

// Handler обработчики курьера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// List godoc
// @Summary Заказы к доставке
// @Description Возвращает подтвержденные и отправленные заказы, отсортированные по дате доставки.
// @Tags Driver
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]models.OrderView}
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Router /driver/orders [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.driver.List"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	orders, err := h.service.ListDeliverable(r.Context())
	if err != nil {
		log.Error("failed to list deliverable orders", sl.Err(err))
		response.FromError(w, r, err, "could not list orders")
		return
	}
	render.JSON(w, r, response.OKWithData(orders))
}

// Deliver godoc
// @Summary Отметить доставку
// @Description Переводит отправленный заказ в delivered.
// @Tags Driver
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Success 200 {object} response.Response{data=models.Order}
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 409 {object} response.ErrorResponse "Заказ еще не отправлен"
// @Router /driver/orders/{id}/delivered [put]
func (h *Handler) Deliver(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.driver.Deliver"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	driverID, _ := middlewarectx.UserIDFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	order, err := h.service.DriverDeliver(r.Context(), driverID, orderID)
	if err != nil {
		log.Error("failed to mark order delivered", sl.Order(orderID), sl.Err(err))
		response.FromError(w, r, err, "could not update order")
		return
	}
	render.JSON(w, r, response.OKWithData(order))
}
