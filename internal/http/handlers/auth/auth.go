// Package auth реализует HTTP-обработчики входа через провайдера
// идентификации, выхода и профиля покупателя.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/pasto-verde/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pasto-verde/internal/http/request"
	"github.com/magabrotheeeer/pasto-verde/internal/http/response"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
	authservice "github.com/magabrotheeeer/pasto-verde/internal/services/auth"
)

// Service описывает бизнес-логику входа, выхода и профиля.
type Service interface {
	Login(ctx context.Context, idToken string) (*authservice.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error)
}

// CallbackRequest ID-токен, полученный клиентом от провайдера.
type CallbackRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// Handler обрабатывает запросы аутентификации и профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Callback godoc
// @Summary Вход через провайдера идентификации
// @Description Проверяет ID-токен провайдера, создает пользователя при первом входе и выдает токен сессии.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body CallbackRequest true "ID-токен провайдера"
// @Success 200 {object} response.Response{data=authservice.LoginResult}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Токен провайдера недействителен"
// @Failure 403 {object} response.ErrorResponse "Пользователь заблокирован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/callback [post]
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.Callback")

	var req CallbackRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), req.IDToken)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		if errors.Is(err, authservice.ErrUnauthorized) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid identity token"))
			return
		}
		response.FromError(w, r, err, "could not sign in")
		return
	}

	log.Info("user signed in", slog.String("user_id", res.User.ID), slog.String("role", string(res.User.Role)))
	render.JSON(w, r, response.OKWithData(res))
}

// Logout godoc
// @Summary Выход
// @Description Удаляет серверную сессию, токен перестает действовать.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.Logout")

	sessionID := middlewarectx.SessionIDFrom(r.Context())
	if sessionID == "" {
		log.Error("session not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Logout(r.Context(), sessionID); err != nil {
		log.Error("failed to logout", sl.Err(err))
		response.FromError(w, r, err, "could not logout")
		return
	}
	render.JSON(w, r, response.OK())
}

// Profile godoc
// @Summary Профиль
// @Description Возвращает профиль текущего пользователя.
// @Tags Profile
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.User}
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.Profile")

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		log.Error("user id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		response.FromError(w, r, err, "could not load profile")
		return
	}
	render.JSON(w, r, response.OKWithData(user))
}

// UpdateProfile godoc
// @Summary Обновить профиль
// @Description Меняет адрес, телефон и согласие с политикой cookies.
// @Tags Profile
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.ProfileUpdate true "Новые значения"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.UpdateProfile")

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		log.Error("user id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var upd models.ProfileUpdate
	if !request.DecodeAndValidate(w, r, log, h.validate, &upd) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		response.FromError(w, r, err, "could not update profile")
		return
	}
	log.Info("profile updated", slog.String("user_id", userID))
	render.JSON(w, r, response.OKWithData(user))
}
