package admin

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pasto-verde/internal/http/response"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
)

const dateLayout = "2006-01-02"

// Overview godoc
// @Summary Сводка
// @Description Количество пользователей, товаров, заказов, активных подписок, выручка, заказы по статусам и районам, последние заказы.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.Overview}
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/overview [get]
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.Overview")

	overview, err := h.reporting.Overview(r.Context())
	if err != nil {
		log.Error("failed to build overview", sl.Err(err))
		response.FromError(w, r, err, "could not build overview")
		return
	}
	render.JSON(w, r, response.OKWithData(overview))
}

// Analytics godoc
// @Summary Аналитика
// @Description Продажи по дням, лучшие товары и регистрации за период. По умолчанию последние 30 дней.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param from query string false "Начало периода, 2006-01-02"
// @Param to query string false "Конец периода включительно, 2006-01-02"
// @Success 200 {object} response.Response{data=models.Analytics}
// @Failure 400 {object} response.ErrorResponse "Некорректный период"
// @Router /admin/analytics [get]
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.Analytics")

	var from, to time.Time
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.Parse(dateLayout, raw); err != nil {
			log.Error("invalid from date", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("from must be a date in format 2006-01-02"))
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.Parse(dateLayout, raw); err != nil {
			log.Error("invalid to date", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("to must be a date in format 2006-01-02"))
			return
		}
		to = to.AddDate(0, 0, 1)
	}

	analytics, err := h.reporting.Analytics(r.Context(), from, to)
	if err != nil {
		log.Error("failed to build analytics", sl.Err(err))
		response.FromError(w, r, err, "could not build analytics")
		return
	}
	render.JSON(w, r, response.OKWithData(analytics))
}
