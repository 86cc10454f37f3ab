// Package signup реализует HTTP-обработчик подачи заявки на регистрацию.
//
// Заявка не создает учётную запись: она попадает в очередь на рассмотрение
// администратором. Повторная подача при живой заявке отвечает так же,
// как первая, чтобы по ответу нельзя было понять состояние очереди.
package signup

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
)

// Request — структура входных данных заявки на регистрацию.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	Submit(ctx context.Context, username, email, password string) error
}

// Handler обрабатывает HTTP-запросы подачи заявки.
type Handler struct {
	log           *slog.Logger
	signupService Service
	validate      *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, signupService Service) *Handler {
	return &Handler{
		log:           log,
		signupService: signupService,
		validate:      validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.signupService.Submit(r.Context(), req.Username, req.Email, req.Password); err != nil {
		log.Error("signup failed", slog.String("username", req.Username), sl.Err(err))
		status, resp := response.StatusFromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("signup request accepted", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "signup request submitted for review",
	}))
}
