// Package errs определяет ошибки бизнес-уровня, по которым HTTP-слой
// выбирает статус ответа. Сервисы возвращают эти ошибки наружу,
// внутренние ошибки хранилища оборачиваются и наружу не выходят.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — запрошенная сущность не существует.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated — сессия отсутствует, истекла или отозвана.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden — операция требует прав администратора.
	ErrForbidden = errors.New("forbidden")
	// ErrLocked — учётная запись заблокирована после неудачных входов.
	ErrLocked = errors.New("account is locked")
	// ErrInvalidCredentials — пароль не подошел.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken — имя занято существующей учётной записью.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrEmailTaken — почта занята существующей учётной записью.
	ErrEmailTaken = errors.New("email is already taken")
	// ErrCodeExpired — срок действия кода подтверждения истек.
	ErrCodeExpired = errors.New("verification code expired")
	// ErrInvalidCode — код подтверждения не совпал.
	ErrInvalidCode = errors.New("invalid verification code")
)

// ValidationError — ошибка проверки входных данных с готовым
// для клиента сообщением.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation создает ValidationError с форматированным сообщением.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation сообщает, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
