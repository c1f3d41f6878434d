// Package middlewarectx содержит HTTP middleware для проверки сессий,
// ролей, частоты запросов и сбора метрик.
//
// JWTMiddleware проверяет JWT в заголовке Authorization и серверную сессию,
// на которую он ссылается, и в случае успеха добавляет в контекст
// ID пользователя, роль и ID сессии для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pasto-verde/internal/http/response"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/sl"
	"github.com/magabrotheeeer/pasto-verde/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID ключ для ID пользователя в контексте
	UserID Key = "user_id"
	// Role ключ для роли пользователя в контексте
	Role Key = "role"
	// SessionID ключ для ID сессии в контексте
	SessionID Key = "session_id"
)

// SessionValidator проверяет токен и возвращает живую сессию.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.Session, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен и сессия валидны, добавляет пользователя, роль и сессию в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(sessions SessionValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			session, err := sessions.ValidateSession(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired session", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserID, session.UserID)
			ctx = context.WithValue(ctx, Role, session.Role)
			ctx = context.WithValue(ctx, SessionID, session.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom возвращает ID пользователя, положенный JWTMiddleware.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserID).(string)
	return id, ok && id != ""
}

// RoleFrom возвращает роль текущего пользователя.
func RoleFrom(ctx context.Context) models.Role {
	role, _ := ctx.Value(Role).(models.Role)
	return role
}

// SessionIDFrom возвращает ID текущей сессии.
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(SessionID).(string)
	return id
}
