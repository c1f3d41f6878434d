// Package orders реализует HTTP-обработчики покупателя: расчет стоимости,
// оформление заказа, список заказов с отслеживанием и подтверждение оплаты.
package orders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/pasto-verde/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pasto-verde/internal/http/request"
	"github.com/magabrotheeeer/pasto-verde/internal/http/response"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// OrderService описывает бизнес-логику заказов покупателя.
type OrderService interface {
	Quote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error)
	Checkout(ctx context.Context, userID string, req models.CheckoutRequest) (*models.CheckoutResult, error)
	ListForUser(ctx context.Context, userID string) ([]*models.OrderView, error)
	Get(ctx context.Context, userID string, role models.Role, orderID string) (*models.OrderView, error)
}

// PaymentService подтверждает оплату заказа.
type PaymentService interface {
	ConfirmPayment(ctx context.Context, userID, orderID string, req models.PaymentConfirmRequest) (*models.Order, error)
}

// Handler обработчики заказов покупателя.
type Handler struct {
	log      *slog.Logger
	orders   OrderService
	payments PaymentService
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, orders OrderService, payments PaymentService) *Handler {
	return &Handler{
		log:      log,
		orders:   orders,
		payments: payments,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		log.Error("user id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
	}
	return userID, ok
}

// Quote godoc
// @Summary Рассчитать стоимость
// @Description Считает стоимость плана с промокодом, в лемпирах и долларах, без создания заказа.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.QuoteRequest true "План и промокод"
// @Success 200 {object} response.Response{data=models.Quote}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /orders/quote [post]
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.orders.Quote")

	var req models.QuoteRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}

	quote, err := h.orders.Quote(r.Context(), req)
	if err != nil {
		log.Error("failed to quote", sl.Err(err))
		response.FromError(w, r, err, "could not compute price")
		return
	}
	render.JSON(w, r, response.OKWithData(quote))
}

// Checkout godoc
// @Summary Оформить заказ
// @Description Создает заказ в статусе pending и, для подписочных планов, активную подписку.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.CheckoutRequest true "Данные заказа"
// @Success 201 {object} response.Response{data=models.CheckoutResult}
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании заказа"
// @Router /orders [post]
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.orders.Checkout")

	userID, ok := h.userID(w, r, log)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}
	log.Info("request body decoded", slog.String("plan_id", req.PlanID))

	res, err := h.orders.Checkout(r.Context(), userID, req)
	if err != nil {
		log.Error("failed to create order", sl.Err(err))
		response.FromError(w, r, err, "could not create order")
		return
	}

	log.Info("order created", sl.Order(res.Order.ID), slog.String("total", res.Order.TotalPrice.StringFixed(2)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(res))
}

// List godoc
// @Summary Мои заказы
// @Description Возвращает заказы текущего пользователя со статусом отслеживания.
// @Tags Orders
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]models.OrderView}
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /orders [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.orders.List")

	userID, ok := h.userID(w, r, log)
	if !ok {
		return
	}

	orders, err := h.orders.ListForUser(r.Context(), userID)
	if err != nil {
		log.Error("failed to list orders", sl.Err(err))
		response.FromError(w, r, err, "could not list orders")
		return
	}
	render.JSON(w, r, response.OKWithData(orders))
}

// Get godoc
// @Summary Заказ
// @Description Возвращает заказ со статусом отслеживания. Покупатель видит только свои заказы.
// @Tags Orders
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Success 200 {object} response.Response{data=models.OrderView}
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Router /orders/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.orders.Get")

	userID, ok := h.userID(w, r, log)
	if !ok {
		return
	}
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.Get(r.Context(), userID, middlewarectx.RoleFrom(r.Context()), orderID)
	if err != nil {
		log.Error("failed to get order", sl.Order(orderID), sl.Err(err))
		response.FromError(w, r, err, "could not load order")
		return
	}
	render.JSON(w, r, response.OKWithData(order))
}

// ConfirmPayment godoc
// @Summary Подтвердить оплату
// @Description Проверяет у PayPal оплату заказа и переводит заказ в confirmed/paid.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Param request body models.PaymentConfirmRequest true "ID заказа PayPal"
// @Success 200 {object} response.Response{data=models.Order}
// @Failure 400 {object} response.ErrorResponse "Оплата не подтверждена"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 409 {object} response.ErrorResponse "Заказ отменен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "PayPal недоступен"
// @Router /orders/{id}/payment [post]
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.orders.ConfirmPayment")

	userID, ok := h.userID(w, r, log)
	if !ok {
		return
	}
	orderID := chi.URLParam(r, "id")

	var req models.PaymentConfirmRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}

	order, err := h.payments.ConfirmPayment(r.Context(), userID, orderID, req)
	if err != nil {
		log.Error("failed to confirm payment", sl.Order(orderID), sl.Err(err))
		response.FromError(w, r, err, "could not confirm payment")
		return
	}

	log.Info("payment confirmed", sl.Order(order.ID), slog.String("payment_status", string(order.PaymentStatus)))
	render.JSON(w, r, response.OKWithData(order))
}
