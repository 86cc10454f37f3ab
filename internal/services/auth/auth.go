// Package services содержит логику бизнес-уровня для аутентификации:
// вход с учётом окна неудачных попыток, выдачу и разрешение сессий,
// смену пароля и подтверждение почты одноразовым кодом.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/account-service/internal/events"
	"github.com/magabrotheeeer/account-service/internal/lib/password"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/lib/token"
	"github.com/magabrotheeeer/account-service/internal/metrics"
	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/services/errs"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// GetUserByUsername возвращает пользователя по имени или ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID возвращает пользователя по ID или ErrUserNotFound.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// RegisterLoginFailure атомарно обновляет счётчик неудачных входов
	// по правилу скользящего окна и возвращает счётчик и флаг блокировки.
	RegisterLoginFailure(ctx context.Context, userID, now, windowSeconds int64, maxFails int) (int, bool, error)

	// ResetLoginThrottle сбрасывает счётчик и окно после успешного входа.
	ResetLoginThrottle(ctx context.Context, userID int64) error

	// ChangePassword обновляет хэш и удаляет все сессии пользователя,
	// возвращая их токены.
	ChangePassword(ctx context.Context, userID int64, newHash string) ([]string, error)

	// MarkEmailVerified помечает почту подтверждённой и очищает код.
	MarkEmailVerified(ctx context.Context, userID int64) error
}

// SessionRepository описывает контракт для работы с сессиями.
type SessionRepository interface {
	// CreateSession сохраняет выданную сессию.
	CreateSession(ctx context.Context, session models.Session) error

	// ResolveSession возвращает владельца действующей сессии и её срок
	// или ErrSessionNotFound.
	ResolveSession(ctx context.Context, token string, now int64) (*models.User, int64, error)

	// DeleteSession удаляет одну сессию, отсутствие строки не ошибка.
	DeleteSession(ctx context.Context, token string) error
}

// Cache описывает методы для кэширования разрешения сессий.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Config параметры выдачи сессий и окна неудачных входов.
type Config struct {
	TokenTTL       time.Duration
	CacheTTL       time.Duration
	ThrottleWindow time.Duration
	MaxFails       int
}

// cachedSession запись кеша: только владелец и срок действия.
// Саму строку пользователя кеш не хранит, чтобы флаги учётной записи
// всегда читались из базы свежими.
type cachedSession struct {
	UserID    int64 `json:"user_id"`
	ExpiresAt int64 `json:"expires_at"`
}

// AuthService отвечает за вход, сессии, смену пароля и подтверждение почты.
type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	cache    Cache
	hasher   *password.Hasher
	events   events.Publisher
	cfg      Config
	log      *slog.Logger

	now func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sessions SessionRepository, cache Cache,
	hasher *password.Hasher, pub events.Publisher, cfg Config, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cache:    cache,
		hasher:   hasher,
		events:   pub,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func sessionKey(tok string) string {
	return "session:" + tok
}

// Login проверяет пароль пользователя и выдает сессионный токен.
//
// Порядок проверок фиксирован: существование учётной записи, блокировка,
// пароль. Блокировка проверяется до пароля, поэтому заблокированная
// учётная запись не может войти даже с верным паролем. Неудачная попытка
// обновляет счётчик окна; если именно она довела счётчик до порога,
// наружу уходит ErrLocked, иначе ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return "", errs.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if user.Locked {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeLocked).Inc()
		return "", errs.ErrLocked
	}

	now := s.now().Unix()
	if !password.Verify(rawPassword, user.PasswordHash) {
		failCount, locked, err := s.users.RegisterLoginFailure(ctx, user.ID, now,
			int64(s.cfg.ThrottleWindow.Seconds()), s.cfg.MaxFails)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if locked {
			s.log.Warn("account locked after repeated login failures",
				slog.String("username", username), slog.Int("fail_count", failCount))
			s.events.Publish(events.KindAccountLocked, username, 0)
			metrics.LoginAttempts.WithLabelValues(metrics.OutcomeLocked).Inc()
			return "", errs.ErrLocked
		}
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeInvalidCredentials).Inc()
		return "", errs.ErrInvalidCredentials
	}

	if err = s.users.ResetLoginThrottle(ctx, user.ID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	tok, err := token.NewSession()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	session := models.Session{
		Token:     tok,
		UserID:    user.ID,
		ExpiresAt: now + int64(s.cfg.TokenTTL.Seconds()),
	}
	if err = s.sessions.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	metrics.LoginAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.SessionsIssued.Inc()
	return tok, nil
}

// Resolve возвращает владельца действующей сессии.
//
// Отсутствующий токен, истекшая сессия и сессия удалённого пользователя
// дают один и тот же ErrUnauthenticated: по ответу нельзя понять,
// какой из случаев произошёл.
func (s *AuthService) Resolve(ctx context.Context, tok string) (*models.User, error) {
	const op = "auth.Resolve"

	if tok == "" {
		return nil, errs.ErrUnauthenticated
	}
	now := s.now().Unix()

	var cached cachedSession
	found, err := s.cache.Get(ctx, sessionKey(tok), &cached)
	if err != nil {
		s.log.Warn("session cache read failed", sl.Err(err))
		found = false
	}
	if found && now < cached.ExpiresAt {
		user, err := s.users.GetUserByID(ctx, cached.UserID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errs.ErrUnauthenticated
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return user, nil
	}

	user, expiresAt, err := s.sessions.ResolveSession(ctx, tok, now)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, errs.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = s.cache.Set(ctx, sessionKey(tok),
		cachedSession{UserID: user.ID, ExpiresAt: expiresAt}, s.cfg.CacheTTL); err != nil {
		s.log.Warn("session cache write failed", sl.Err(err))
	}
	return user, nil
}

// Logout удаляет сессию. Повторный выход по тому же токену тоже успешен.
func (s *AuthService) Logout(ctx context.Context, tok string) error {
	const op = "auth.Logout"

	if tok == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, tok); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, sessionKey(tok)); err != nil {
		s.log.Warn("session cache invalidate failed", sl.Err(err))
	}
	return nil
}

// ChangePassword меняет пароль и отзывает все сессии пользователя.
// Новый пароль обязан удовлетворять политике сложности; старый
// проверяется до политики.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	const op = "auth.ChangePassword"

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return errs.ErrUnauthenticated
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !password.Verify(oldPassword, user.PasswordHash) {
		return errs.ErrInvalidCredentials
	}
	if err = password.CheckStrength(newPassword); err != nil {
		return errs.Validation("%s", err.Error())
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	revoked, err := s.users.ChangePassword(ctx, userID, newHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, revokedToken := range revoked {
		if err = s.cache.Invalidate(ctx, sessionKey(revokedToken)); err != nil {
			s.log.Warn("session cache invalidate failed", sl.Err(err))
		}
	}
	s.log.Info("password changed, all sessions revoked",
		slog.Int64("user_id", userID), slog.Int("sessions_revoked", len(revoked)))
	return nil
}

// ConfirmEmailCode проверяет одноразовый код подтверждения почты.
// Уже подтверждённая учётная запись дает успех без проверки кода.
func (s *AuthService) ConfirmEmailCode(ctx context.Context, userID int64, code string) error {
	const op = "auth.ConfirmEmailCode"

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return errs.ErrUnauthenticated
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if user.EmailVerified {
		return nil
	}

	now := s.now().Unix()
	if user.VerificationExpiresAt != nil && now > *user.VerificationExpiresAt {
		return errs.ErrCodeExpired
	}
	if user.VerificationCodeHash == nil || !password.Verify(code, *user.VerificationCodeHash) {
		return errs.ErrInvalidCode
	}

	if err = s.users.MarkEmailVerified(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("email verified", slog.Int64("user_id", userID))
	return nil
}
