// Package health реализует HTTP-обработчик проверки готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
)

// Checker проверяет готовность базы данных.
type Checker interface {
	Ready() error
}

// Pinger проверяет доступность кеша.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler обрабатывает HTTP-запросы проверки готовности.
type Handler struct {
	log   *slog.Logger
	db    Checker
	cache Pinger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, db Checker, cache Pinger) *Handler {
	return &Handler{log: log, db: db, cache: cache}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	dbStatus := "ok"
	if err := h.db.Ready(); err != nil {
		h.log.Error("database check failed", slog.String("op", op), sl.Err(err))
		dbStatus = "unavailable"
	}

	redisStatus := "ok"
	if err := h.cache.Ping(r.Context()); err != nil {
		h.log.Error("redis check failed", slog.String("op", op), sl.Err(err))
		redisStatus = "unavailable"
	}

	body := map[string]any{
		"database": dbStatus,
		"redis":    redisStatus,
	}
	if dbStatus != "ok" || redisStatus != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  "service not ready",
			Data:   body,
		})
		return
	}

	body["status"] = "ok"
	render.JSON(w, r, response.OKWithData(body))
}
