// Package password реализует хеширование и проверку паролей на основе
// PBKDF2-HMAC-SHA256 с самоописывающим форматом хранения
// pbkdf2_sha256$iterations$salt$key (base64url без выравнивания).
//
// Hash создает запись с новой случайной солью.
// Verify проверяет пароль против сохранённой записи и никогда не
// возвращает ошибку: любая повреждённая или незнакомая запись трактуется
// как несовпадение.
package password

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	algorithmTag = "pbkdf2_sha256"
	saltLength   = 16
	keyLength    = 32

	// DefaultIterations соответствует количеству итераций,
	// использовавшемуся при создании существующих записей.
	DefaultIterations = 200000
)

// Hasher создает записи паролей с заданным количеством итераций.
// Количество итераций фиксируется при создании и сохраняется в записи,
// поэтому старые записи проверяются со своим собственным значением.
type Hasher struct {
	iterations int
}

// NewHasher возвращает Hasher. Неположительное значение итераций
// заменяется на DefaultIterations.
func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{iterations: iterations}
}

// Hash возвращает запись пароля с новой случайной солью.
// Для одного и того же пароля каждый вызов дает разные записи.
func (h *Hasher) Hash(rawPassword string) (string, error) {
	const op = "password.Hash"

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	key := pbkdf2.Key([]byte(rawPassword), salt, h.iterations, keyLength, sha256.New)

	enc := base64.RawURLEncoding
	return fmt.Sprintf("%s$%d$%s$%s",
		algorithmTag, h.iterations, enc.EncodeToString(salt), enc.EncodeToString(key)), nil
}

// Verify сравнивает пароль с сохранённой записью.
// Возвращает false при любом дефекте записи: неизвестный алгоритм,
// неверное число частей, испорченный base64. Ошибок не бывает, чтобы
// повреждённая запись в базе не роняла вход.
func Verify(rawPassword, record string) bool {
	parts := strings.SplitN(record, "$", 4)
	if len(parts) != 4 || parts[0] != algorithmTag {
		return false
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}
	enc := base64.RawURLEncoding
	salt, err := enc.DecodeString(parts[2])
	if err != nil {
		return false
	}
	expected, err := enc.DecodeString(parts[3])
	if err != nil || len(expected) == 0 {
		return false
	}

	key := pbkdf2.Key([]byte(rawPassword), salt, iterations, len(expected), sha256.New)
	return hmac.Equal(key, expected)
}
