package models

// Session представляет выданную при входе сессию.
// Токен непрозрачный, 256 бит энтропии в hex‑кодировке.
type Session struct {
	Token     string // Первичный ключ
	UserID    int64  // Владелец сессии
	ExpiresAt int64  // Абсолютный срок действия, unix‑секунды
}
