// Package userunlock реализует HTTP-обработчик ручного снятия
// блокировки входа с учётной записи.
package userunlock

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики снятия блокировки.
type Service interface {
	Unlock(ctx context.Context, userID int64) error
}

// Handler обрабатывает HTTP-запросы снятия блокировки.
type Handler struct {
	log          *slog.Logger
	adminService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, adminService Service) *Handler {
	return &Handler{log: log, adminService: adminService}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userunlock"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid user id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	if err := h.adminService.Unlock(r.Context(), userID); err != nil {
		log.Error("unlock failed", slog.Int64("user_id", userID), sl.Err(err))
		status, resp := response.StatusFromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("user unlocked", slog.Int64("user_id", userID))
	render.JSON(w, r, response.OK())
}
