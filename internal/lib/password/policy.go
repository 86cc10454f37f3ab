package password

import (
	"errors"
	"unicode"
)

// Ошибки политики сложности пароля. Применяется при регистрации
// и смене пароля; при входе действует только минимальная длина,
// чтобы не отсекать ранее созданные учётные записи.
var (
	ErrTooShort    = errors.New("password must be at least 8 characters")
	ErrNoLowercase = errors.New("password must include a lowercase letter")
	ErrNoUppercase = errors.New("password must include an uppercase letter")
	ErrNoDigit     = errors.New("password must include a number")
)

// CheckStrength проверяет пароль на соответствие политике:
// не меньше 8 символов, хотя бы одна строчная и одна заглавная буква,
// хотя бы одна цифра.
func CheckStrength(rawPassword string) error {
	if len(rawPassword) < 8 {
		return ErrTooShort
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range rawPassword {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower {
		return ErrNoLowercase
	}
	if !hasUpper {
		return ErrNoUppercase
	}
	if !hasDigit {
		return ErrNoDigit
	}
	return nil
}
