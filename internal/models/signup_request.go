package models

// Статусы заявки на регистрацию. Переходы односторонние:
// pending -> approved либо pending -> rejected.
const (
	SignupStatusPending  = "pending"
	SignupStatusApproved = "approved"
	SignupStatusRejected = "rejected"
)

// SignupRequest представляет заявку на создание учётной записи,
// ожидающую решения администратора. После перехода из pending
// заявка не изменяется и хранится как аудиторская запись.
type SignupRequest struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Status       string `json:"status"`
	CreatedAt    int64  `json:"created_at"`
}
