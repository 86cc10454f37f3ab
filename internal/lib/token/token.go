// Package token генерирует непрозрачные сессионные токены и одноразовые
// коды подтверждения. Оба используют криптографический источник
// случайности.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// SessionLength длина сессионного токена в hex‑символах (256 бит энтропии).
const SessionLength = 64

var codeSpace = big.NewInt(1000000)

// NewSession возвращает новый сессионный токен: 32 случайных байта
// в hex‑кодировке. Энтропии достаточно, чтобы не проверять уникальность.
func NewSession() (string, error) {
	const op = "token.NewSession"
	buf := make([]byte, SessionLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}

// NewCode возвращает равномерно распределённый шестизначный код
// подтверждения с ведущими нулями.
func NewCode() (string, error) {
	const op = "token.NewCode"
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
