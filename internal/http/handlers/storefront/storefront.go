// Package storefront реализует открытые обработчики витрины: планы, зоны
// доставки и поиск адреса на карте.
package storefront

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pasto-verde/internal/catalog"
	"github.com/magabrotheeeer/pasto-verde/internal/geocoding"
	"github.com/magabrotheeeer/pasto-verde/internal/http/response"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
)

const maxQueryLen = 300

// Geocoder ищет координаты по тексту адреса.
type Geocoder interface {
	Search(ctx context.Context, query string) (*geocoding.Result, error)
}

// PlansResponse планы и допустимые окна доставки.
type PlansResponse struct {
	Plans           []catalog.Plan `json:"plans"`
	DeliveryWindows []string       `json:"delivery_windows"`
}

// ZonesResponse зоны доставки и центр карты.
type ZonesResponse struct {
	Zones  []catalog.Zone `json:"zones"`
	Center catalog.Point  `json:"center"`
}

// Handler обработчики витрины.
type Handler struct {
	log      *slog.Logger
	geocoder Geocoder
}

// New создает новый Handler.
func New(log *slog.Logger, geocoder Geocoder) *Handler {
	return &Handler{log: log, geocoder: geocoder}
}

// Plans godoc
// @Summary Планы
// @Description Возвращает планы подписки с ценами и окна доставки.
// @Tags Catalog
// @Produce  json
// @Success 200 {object} response.Response{data=PlansResponse}
// @Router /catalog/plans [get]
func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(PlansResponse{
		Plans:           catalog.Plans(),
		DeliveryWindows: catalog.DeliveryWindows,
	}))
}

// Zones godoc
// @Summary Зоны доставки
// @Description Возвращает полигоны зон доставки и центр карты по умолчанию.
// @Tags Catalog
// @Produce  json
// @Success 200 {object} response.Response{data=ZonesResponse}
// @Router /catalog/zones [get]
func (h *Handler) Zones(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(ZonesResponse{
		Zones:  catalog.Zones(),
		Center: catalog.DefaultCenter,
	}))
}

// Geocode godoc
// @Summary Поиск адреса
// @Description Ищет координаты адреса в Тегусигальпе и зону доставки, в которую он попадает.
// @Tags Catalog
// @Produce  json
// @Security BearerAuth
// @Param q query string true "Адрес или ориентир"
// @Success 200 {object} response.Response{data=geocoding.Result}
// @Failure 400 {object} response.ErrorResponse "Пустой запрос"
// @Failure 404 {object} response.ErrorResponse "Адрес не найден"
// @Failure 502 {object} response.ErrorResponse "Сервис геокодирования недоступен"
// @Router /geocode [get]
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.storefront.Geocode"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" || len(q) > maxQueryLen {
		log.Error("invalid geocoding query", slog.Int("len", len(q)))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("query parameter q is required"))
		return
	}

	res, err := h.geocoder.Search(r.Context(), q)
	if err != nil {
		log.Error("geocoding failed", sl.Err(err))
		response.FromError(w, r, err, "could not geocode address")
		return
	}
	render.JSON(w, r, response.OKWithData(res))
}
