// Package middlewarectx содержит HTTP middleware для разрешения сессий.
//
// SessionMiddleware проверяет наличие сессионного токена в заголовке
// Authorization, разрешает его через сервис аутентификации и в случае
// успеха добавляет в контекст пользователя и сам токен для дальнейшего
// использования в обработчиках.
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

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для пользователя в контексте
	User Key = "user"
	// SessionToken — ключ для сессионного токена в контексте
	SessionToken Key = "session_token"
)

// Service описывает интерфейс сервиса для разрешения сессионного токена.
type Service interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// UserFromContext извлекает пользователя, положенного SessionMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok
}

// TokenFromContext извлекает сессионный токен текущего запроса.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SessionToken).(string)
	return token, ok
}

// SessionMiddleware возвращает HTTP middleware, который разрешает сессионный
// токен из заголовка Authorization.
//
// Если токен действителен, добавляет пользователя и токен в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func SessionMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			authHeader := r.Header.Get("Authorization")

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.Resolve(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired session", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired session"))
				return
			}
			ctx := context.WithValue(r.Context(), User, user)
			ctx = context.WithValue(ctx, SessionToken, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
