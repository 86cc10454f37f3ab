package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// CreateSession сохраняет выданную сессию.
func (s *Storage) CreateSession(ctx context.Context, session models.Session) error {
	const op = "storage.CreateSession"

	query := `INSERT INTO sessions (token, user_id, expires_at)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query,
		session.Token, session.UserID, session.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResolveSession возвращает владельца действующей сессии и её срок.
// Отсутствующий токен, истекшая сессия и сессия без владельца
// неразличимы: все дают ErrSessionNotFound.
func (s *Storage) ResolveSession(ctx context.Context, token string, now int64) (*models.User, int64, error) {
	const op = "storage.ResolveSession"

	query := `SELECT u.id, u.username, u.email, u.password_hash, u.is_admin, u.locked,
			      u.failed_login_count, u.failed_login_window_start, u.must_change_password,
			      u.email_verified, u.email_verification_code_hash, u.email_verification_expires_at,
			      s.expires_at
			  FROM sessions s
			  JOIN users u ON u.id = s.user_id
			  WHERE s.token = $1 AND s.expires_at > $2`
	u := &models.User{}
	var email, codeHash sql.NullString
	var windowStart, codeExpiresAt sql.NullInt64
	var expiresAt int64
	err := s.DB.QueryRowContext(ctx, query, token, now).Scan(
		&u.ID, &u.Username, &email, &u.PasswordHash, &u.IsAdmin, &u.Locked,
		&u.FailedLoginCount, &windowStart, &u.MustChangePassword,
		&u.EmailVerified, &codeHash, &codeExpiresAt,
		&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if email.Valid {
		u.Email = &email.String
	}
	if windowStart.Valid {
		u.FailedLoginWindowStart = &windowStart.Int64
	}
	if codeHash.Valid {
		u.VerificationCodeHash = &codeHash.String
	}
	if codeExpiresAt.Valid {
		u.VerificationExpiresAt = &codeExpiresAt.Int64
	}
	return u, expiresAt, nil
}

// DeleteSession удаляет одну сессию. Отсутствие строки не ошибка.
func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	const op = "storage.DeleteSession"

	query := `DELETE FROM sessions WHERE token = $1`
	if _, err := s.DB.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
