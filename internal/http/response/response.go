// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-service/internal/services/errs"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OK возвращает успешный Response без данных.
func OK() Response {
	return Response{Status: StatusOK}
}

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email address", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "len":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has a wrong length", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// StatusFromError подбирает HTTP-статус и текст для ошибки бизнес-уровня.
// Незнакомые ошибки дают 500 с нейтральным сообщением, их текст наружу
// не выходит.
func StatusFromError(err error) (int, Response) {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, Error(ve.Msg)
	}

	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized, Error("authentication required")
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized, Error("invalid credentials")
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, Error("admin access required")
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, Error("not found")
	case errors.Is(err, errs.ErrUsernameTaken):
		return http.StatusConflict, Error("username is already taken")
	case errors.Is(err, errs.ErrEmailTaken):
		return http.StatusConflict, Error("email is already taken")
	case errors.Is(err, errs.ErrLocked):
		return http.StatusLocked, Error("account is locked")
	case errors.Is(err, errs.ErrCodeExpired):
		return http.StatusBadRequest, Error("verification code expired")
	case errors.Is(err, errs.ErrInvalidCode):
		return http.StatusBadRequest, Error("invalid verification code")
	default:
		return http.StatusInternalServerError, Error("internal error")
	}
}
