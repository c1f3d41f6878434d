// Package webhook принимает события PayPal о списаниях и возвратах.
package webhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pasto-verde/internal/http/response"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/paymentprovider"
)

const maxBodySize = 1 << 20

// Service проверяет и применяет событие.
type Service interface {
	ProcessWebhook(ctx context.Context, headers paymentprovider.WebhookHeaders, body []byte) error
}

// Handler обработчик вебхука PayPal.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Вебхук PayPal
// @Description Принимает события PAYMENT.CAPTURE.*, проверяет подпись через PayPal и применяет их один раз.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректное событие"
// @Failure 403 {object} response.ErrorResponse "Подпись недействительна"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера, PayPal повторит доставку"
// @Failure 502 {object} response.ErrorResponse "PayPal недоступен"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil || len(body) == 0 {
		log.Error("failed to read webhook body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.ProcessWebhook(r.Context(), paymentprovider.HeadersFromRequest(r), body); err != nil {
		log.Error("failed to process webhook", sl.Err(err))
		response.FromError(w, r, err, "could not process webhook")
		return
	}
	render.JSON(w, r, response.OK())
}
