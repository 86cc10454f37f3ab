// Package requestapprove реализует HTTP-обработчик одобрения заявки
// на регистрацию.
//
// Одобрение создает учётную запись и возвращает одноразовый код
// подтверждения почты. Код показывается только в этом ответе: хранится
// лишь его хэш, передать код владельцу должен администратор.
package requestapprove

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

// Service описывает интерфейс бизнес-логики одобрения заявок.
type Service interface {
	Approve(ctx context.Context, requestID int64) (string, bool, error)
}

// Handler обрабатывает HTTP-запросы одобрения заявок.
type Handler struct {
	log           *slog.Logger
	signupService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, signupService Service) *Handler {
	return &Handler{log: log, signupService: signupService}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.requestapprove"

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

	code, created, err := h.signupService.Approve(r.Context(), requestID)
	if err != nil {
		log.Error("approve failed", slog.Int64("signup_request_id", requestID), sl.Err(err))
		status, resp := response.StatusFromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	if !created {
		log.Info("signup request already decided", slog.Int64("signup_request_id", requestID))
		render.JSON(w, r, response.OKWithData(map[string]any{
			"message": "request already decided",
		}))
		return
	}

	log.Info("signup request approved", slog.Int64("signup_request_id", requestID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message":           "account created",
		"verification_code": code,
	}))
}
