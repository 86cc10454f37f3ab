package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/account-service/internal/models"
)

const userColumns = `id, username, email, password_hash, is_admin, locked,
			      failed_login_count, failed_login_window_start, must_change_password,
			      email_verified, email_verification_code_hash, email_verification_expires_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	var email, codeHash sql.NullString
	var windowStart, codeExpiresAt sql.NullInt64
	if err := row.Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.IsAdmin, &u.Locked,
		&u.FailedLoginCount, &windowStart, &u.MustChangePassword,
		&u.EmailVerified, &codeHash, &codeExpiresAt); err != nil {
		return nil, err
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
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"

	var newID int64
	query := `INSERT INTO users (username, email, password_hash, is_admin, locked,
			      failed_login_count, failed_login_window_start, must_change_password,
			      email_verified, email_verification_code_hash, email_verification_expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.Locked,
		user.FailedLoginCount, user.FailedLoginWindowStart, user.MustChangePassword,
		user.EmailVerified, user.VerificationCodeHash, user.VerificationExpiresAt,
	).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по имени или ErrUserNotFound.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по его ID или ErrUserNotFound.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UsernameTaken сообщает, занято ли имя пользователя.
func (s *Storage) UsernameTaken(ctx context.Context, username string) (bool, error) {
	const op = "storage.UsernameTaken"

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	if err := s.DB.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// EmailTaken сообщает, занята ли почта.
func (s *Storage) EmailTaken(ctx context.Context, email string) (bool, error) {
	const op = "storage.EmailTaken"

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// RegisterLoginFailure атомарно применяет правило скользящего окна
// к счётчику неудачных входов. Если окно не активно или началось больше
// windowSeconds назад, оно перезапускается с текущего момента со счётом 1;
// иначе счётчик увеличивается. Блокировка включается, как только счёт
// в активном окне достигает maxFails, и сама по себе не снимается.
// Возвращает счётчик и признак блокировки после обновления.
func (s *Storage) RegisterLoginFailure(ctx context.Context, userID, now, windowSeconds int64, maxFails int) (int, bool, error) {
	const op = "storage.RegisterLoginFailure"

	query := `UPDATE users SET
			      failed_login_window_start = CASE
			          WHEN failed_login_window_start IS NULL
			               OR $2 - failed_login_window_start > $3
			          THEN $2 ELSE failed_login_window_start END,
			      failed_login_count = CASE
			          WHEN failed_login_window_start IS NULL
			               OR $2 - failed_login_window_start > $3
			          THEN 1 ELSE failed_login_count + 1 END,
			      locked = locked OR (CASE
			          WHEN failed_login_window_start IS NULL
			               OR $2 - failed_login_window_start > $3
			          THEN 1 ELSE failed_login_count + 1 END) >= $4
			  WHERE id = $1
			  RETURNING failed_login_count, locked;`

	var failCount int
	var locked bool
	err := s.DB.QueryRowContext(ctx, query, userID, now, windowSeconds, maxFails).
		Scan(&failCount, &locked)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return failCount, locked, nil
}

// ResetLoginThrottle сбрасывает счётчик и окно неудачных входов.
// Флаг locked не трогает: заблокированная учётная запись не может
// успешно войти, поэтому сюда не попадает.
func (s *Storage) ResetLoginThrottle(ctx context.Context, userID int64) error {
	const op = "storage.ResetLoginThrottle"

	query := `UPDATE users
			  SET failed_login_count = 0,
			      failed_login_window_start = NULL
			  WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UnlockUser снимает блокировку и обнуляет счётчики неудачных входов.
func (s *Storage) UnlockUser(ctx context.Context, userID int64) error {
	const op = "storage.UnlockUser"

	query := `UPDATE users
			  SET locked = FALSE,
			      failed_login_count = 0,
			      failed_login_window_start = NULL
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// ChangePassword в одной транзакции обновляет хэш пароля, снимает
// флаг обязательной смены, сбрасывает счётчики входов и удаляет
// все сессии пользователя. Возвращает токены удалённых сессий,
// чтобы вызывающая сторона могла инвалидировать кеш.
func (s *Storage) ChangePassword(ctx context.Context, userID int64, newHash string) ([]string, error) {
	const op = "storage.ChangePassword"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	updateQuery := `UPDATE users
			  SET password_hash = $2,
			      must_change_password = FALSE,
			      locked = FALSE,
			      failed_login_count = 0,
			      failed_login_window_start = NULL
			  WHERE id = $1`
	res, err := tx.ExecContext(ctx, updateQuery, userID, newHash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	rows, err := tx.QueryContext(ctx,
		`DELETE FROM sessions WHERE user_id = $1 RETURNING token`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var tokens []string
	for rows.Next() {
		var token string
		if err = rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tokens = append(tokens, token)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tokens, nil
}

// MarkEmailVerified помечает почту подтверждённой и очищает
// хэш кода с его сроком действия.
func (s *Storage) MarkEmailVerified(ctx context.Context, userID int64) error {
	const op = "storage.MarkEmailVerified"

	query := `UPDATE users
			  SET email_verified = TRUE,
			      email_verification_code_hash = NULL,
			      email_verification_expires_at = NULL
			  WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PromoteToAdmin выставляет флаг администратора и обязательную смену
// пароля; почта дозаполняется, если была пустой. Используется при
// бутстрапе стартового администратора.
func (s *Storage) PromoteToAdmin(ctx context.Context, userID int64, email *string) error {
	const op = "storage.PromoteToAdmin"

	query := `UPDATE users
			  SET is_admin = TRUE,
			      must_change_password = TRUE,
			      email = COALESCE(email, $2)
			  WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, userID, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUsers возвращает всех пользователей по возрастанию ID.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY id ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
