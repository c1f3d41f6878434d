package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pasto-verde/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pasto-verde/internal/http/request"
	"github.com/magabrotheeeer/pasto-verde/internal/http/response"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// ListOrders godoc
// @Summary Заказы
// @Description Список заказов, новые первыми, с фильтром по статусу.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param status query string false "Статус заказа"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]models.OrderView}
// @Failure 400 {object} response.ErrorResponse "Неизвестный статус"
// @Router /admin/orders [get]
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.ListOrders")

	limit, offset := request.Pagination(r)
	orders, err := h.orders.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		log.Error("failed to list orders", sl.Err(err))
		response.FromError(w, r, err, "could not list orders")
		return
	}
	render.JSON(w, r, response.OKWithData(orders))
}

// CreateOrder godoc
// @Summary Создать заказ
// @Description Создает заказ на товар от имени пользователя и списывает остаток.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.AdminOrderRequest true "Данные заказа"
// @Success 201 {object} response.Response{data=models.Order}
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 404 {object} response.ErrorResponse "Товар или пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Недостаточно товара"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /admin/orders [post]
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.CreateOrder")

	var req models.AdminOrderRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}

	order, err := h.orders.AdminCreate(r.Context(), req)
	if err != nil {
		log.Error("failed to create order", sl.Err(err))
		response.FromError(w, r, err, "could not create order")
		return
	}

	log.Info("order created by admin", sl.Order(order.ID), slog.String("user_id", order.UserID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(order))
}

// UpdateOrderStatus godoc
// @Summary Сменить статус заказа
// @Description Переводит заказ на следующий статус или отменяет его. Другие переходы требуют force.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Param request body models.StatusUpdateRequest true "Новый статус"
// @Success 200 {object} response.Response{data=models.Order}
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 409 {object} response.ErrorResponse "Переход не разрешен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /admin/orders/{id}/status [put]
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.UpdateOrderStatus")

	orderID := chi.URLParam(r, "id")
	var req models.StatusUpdateRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}

	adminID, _ := middlewarectx.UserIDFrom(r.Context())
	order, err := h.orders.UpdateStatus(r.Context(), adminID, orderID, req)
	if err != nil {
		log.Error("failed to update order status", sl.Order(orderID), sl.Err(err))
		response.FromError(w, r, err, "could not update order")
		return
	}

	log.Info("order status updated", sl.Order(orderID), slog.String("status", string(order.Status)), slog.Bool("force", req.Force))
	render.JSON(w, r, response.OKWithData(order))
}
