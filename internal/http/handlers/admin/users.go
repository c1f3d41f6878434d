package admin

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pasto-verde/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pasto-verde/internal/http/request"
	"github.com/magabrotheeeer/pasto-verde/internal/http/response"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// ListUsers godoc
// @Summary Пользователи
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]models.User}
// @Router /admin/users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.ListUsers")

	limit, offset := request.Pagination(r)
	users, err := h.management.ListUsers(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		response.FromError(w, r, err, "could not list users")
		return
	}
	render.JSON(w, r, response.OKWithData(users))
}

// UpdateUser godoc
// @Summary Изменить пользователя
// @Description Меняет роль, активность и контактные данные. Свою роль и активность менять нельзя.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID пользователя"
// @Param request body models.UserUpdate true "Новые значения"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Нельзя изменить себя"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /admin/users/{id} [put]
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.UpdateUser")

	userID := chi.URLParam(r, "id")
	var upd models.UserUpdate
	if !request.DecodeAndValidate(w, r, log, h.validate, &upd) {
		return
	}

	adminID, _ := middlewarectx.UserIDFrom(r.Context())
	user, err := h.management.UpdateUser(r.Context(), adminID, userID, upd)
	if err != nil {
		log.Error("failed to update user", sl.Err(err))
		response.FromError(w, r, err, "could not update user")
		return
	}
	render.JSON(w, r, response.OKWithData(user))
}

// ListSubscriptions godoc
// @Summary Подписки
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param user_id query string false "ID пользователя"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]models.Subscription}
// @Router /admin/subscriptions [get]
func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.ListSubscriptions")

	limit, offset := request.Pagination(r)
	subs, err := h.management.ListSubscriptions(r.Context(), r.URL.Query().Get("user_id"), limit, offset)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		response.FromError(w, r, err, "could not list subscriptions")
		return
	}
	render.JSON(w, r, response.OKWithData(subs))
}

// DeactivateSubscription godoc
// @Summary Отключить подписку
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Router /admin/subscriptions/{id} [delete]
func (h *Handler) DeactivateSubscription(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.DeactivateSubscription")

	id, ok := request.Int64Param(w, r, log, "id")
	if !ok {
		return
	}
	if err := h.management.DeactivateSubscription(r.Context(), id); err != nil {
		log.Error("failed to deactivate subscription", sl.Err(err))
		response.FromError(w, r, err, "could not deactivate subscription")
		return
	}
	render.JSON(w, r, response.OK())
}
