// Package requestlist реализует HTTP-обработчик списка заявок на
// регистрацию для администратора.
package requestlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
)

// Service описывает интерфейс бизнес-логики выборки заявок.
type Service interface {
	List(ctx context.Context, statusFilter string) ([]*models.SignupRequest, error)
}

// Handler обрабатывает HTTP-запросы списка заявок.
type Handler struct {
	log           *slog.Logger
	signupService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, signupService Service) *Handler {
	return &Handler{log: log, signupService: signupService}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.requestlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.SignupStatusPending
	}

	requests, err := h.signupService.List(r.Context(), status)
	if err != nil {
		log.Error("failed to list signup requests", sl.Err(err))
		statusCode, resp := response.StatusFromError(err)
		w.WriteHeader(statusCode)
		render.JSON(w, r, resp)
		return
	}

	log.Info("signup requests listed", slog.Int("count", len(requests)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"requests": requests,
		"count":    len(requests),
	}))
}
