// Package models содержит доменные модели сервиса учётных записей:
// пользователя, сессию и заявку на регистрацию. Структуры используются
// в бизнес‑логике и при работе с хранилищем.
package models

// User представляет учётную запись пользователя системы.
type User struct {
	ID                     int64   // Уникальный числовой идентификатор
	Username               string  // Имя пользователя (уникальное, не меняется после создания)
	Email                  *string // Электронная почта (уникальная, может отсутствовать)
	PasswordHash           string  // Хэш пароля в формате pbkdf2_sha256$iters$salt$key
	IsAdmin                bool    // Признак администратора
	Locked                 bool    // Учётная запись заблокирована после серии неудачных входов
	FailedLoginCount       int     // Количество неудачных входов в текущем окне
	FailedLoginWindowStart *int64  // Начало окна неудачных входов, unix‑секунды
	MustChangePassword     bool    // Требуется смена пароля при следующем входе
	EmailVerified          bool    // Почта подтверждена одноразовым кодом
	VerificationCodeHash   *string // Хэш одноразового кода подтверждения
	VerificationExpiresAt  *int64  // Срок действия кода, unix‑секунды
}

// UserSummary содержит поля учётной записи без секретов,
// пригодные для выдачи наружу.
type UserSummary struct {
	ID                 int64   `json:"id"`
	Username           string  `json:"username"`
	Email              *string `json:"email,omitempty"`
	IsAdmin            bool    `json:"is_admin"`
	Locked             bool    `json:"locked"`
	FailedLoginCount   int     `json:"failed_login_count"`
	MustChangePassword bool    `json:"must_change_password"`
	EmailVerified      bool    `json:"email_verified"`
}

// Summary возвращает представление пользователя без хэша пароля
// и данных кода подтверждения.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		IsAdmin:            u.IsAdmin,
		Locked:             u.Locked,
		FailedLoginCount:   u.FailedLoginCount,
		MustChangePassword: u.MustChangePassword,
		EmailVerified:      u.EmailVerified,
	}
}
