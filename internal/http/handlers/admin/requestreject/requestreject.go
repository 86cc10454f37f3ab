// Package requestreject реализует HTTP-обработчик отклонения заявки
// на регистрацию. Повторное отклонение — успешный no-op.
package requestreject

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

// Service описывает интерфейс бизнес-логики отклонения заявок.
type Service interface {
	Reject(ctx context.Context, requestID int64) error
}

// Handler обрабатывает HTTP-запросы отклонения заявок.
type Handler struct {
	log           *slog.Logger
	signupService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, signupService Service) *Handler {
	return &Handler{log: log, signupService: signupService}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.requestreject"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid request id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request id"))
		return
	}

	if err := h.signupService.Reject(r.Context(), requestID); err != nil {
		log.Error("reject failed", slog.Int64("signup_request_id", requestID), sl.Err(err))
		status, resp := response.StatusFromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("signup request rejected", slog.Int64("signup_request_id", requestID))
	render.JSON(w, r, response.OK())
}
