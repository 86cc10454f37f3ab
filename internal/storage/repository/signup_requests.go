package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// CreateSignupRequest сохраняет новую заявку на регистрацию.
func (s *Storage) CreateSignupRequest(ctx context.Context, req models.SignupRequest) (int64, error) {
	const op = "storage.CreateSignupRequest"

	var newID int64
	query := `INSERT INTO signup_requests (username, email, password_hash, status, created_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		req.Username, req.Email, req.PasswordHash, req.Status, req.CreatedAt,
	).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// HasPendingRequest сообщает, есть ли необработанная заявка
// с данным именем пользователя.
func (s *Storage) HasPendingRequest(ctx context.Context, username string) (bool, error) {
	const op = "storage.HasPendingRequest"

	var exists bool
	query := `SELECT EXISTS (
			      SELECT 1 FROM signup_requests
			      WHERE username = $1 AND status = $2
			  )`
	if err := s.DB.QueryRowContext(ctx, query,
		username, models.SignupStatusPending).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListSignupRequests возвращает заявки, опционально отфильтрованные
// по статусу (пустая строка — все), новые первыми.
func (s *Storage) ListSignupRequests(ctx context.Context, status string) ([]*models.SignupRequest, error) {
	const op = "storage.ListSignupRequests"

	query := `SELECT id, username, email, password_hash, status, created_at
			  FROM signup_requests
			  WHERE $1 = '' OR status = $1
			  ORDER BY id DESC`
	rows, err := s.DB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SignupRequest
	for rows.Next() {
		var r models.SignupRequest
		if err = rows.Scan(&r.ID, &r.Username, &r.Email, &r.PasswordHash,
			&r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ApproveSignupRequest одобряет заявку и создаёт учётную запись
// в одной транзакции. Строка заявки блокируется, поэтому два
// конкурентных одобрения не создадут двух пользователей: переход
// статуса односторонний. Возвращает созданного пользователя, либо
// (nil, false) если заявка уже не pending — это не ошибка.
func (s *Storage) ApproveSignupRequest(ctx context.Context, requestID int64, codeHash string, codeExpiresAt int64) (*models.User, bool, error) {
	const op = "storage.ApproveSignupRequest"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var req models.SignupRequest
	selectQuery := `SELECT id, username, email, password_hash, status
			  FROM signup_requests
			  WHERE id = $1
			  FOR UPDATE`
	err = tx.QueryRowContext(ctx, selectQuery, requestID).Scan(
		&req.ID, &req.Username, &req.Email, &req.PasswordHash, &req.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%s: %w", op, ErrRequestNotFound)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if req.Status != models.SignupStatusPending {
		return nil, false, nil
	}

	user := models.User{
		Username:              req.Username,
		Email:                 &req.Email,
		PasswordHash:          req.PasswordHash,
		EmailVerified:         false,
		VerificationCodeHash:  &codeHash,
		VerificationExpiresAt: &codeExpiresAt,
	}
	insertQuery := `INSERT INTO users (username, email, password_hash, is_admin, locked,
			      failed_login_count, failed_login_window_start, must_change_password,
			      email_verified, email_verification_code_hash, email_verification_expires_at)
			  VALUES ($1, $2, $3, FALSE, FALSE, 0, NULL, FALSE, FALSE, $4, $5)
			  RETURNING id;`
	if err = tx.QueryRowContext(ctx, insertQuery,
		user.Username, user.Email, user.PasswordHash, codeHash, codeExpiresAt,
	).Scan(&user.ID); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	updateQuery := `UPDATE signup_requests SET status = $2 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, requestID, models.SignupStatusApproved); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &user, true, nil
}

// RejectSignupRequest отклоняет заявку. Возвращает false без ошибки,
// если заявка уже была рассмотрена.
func (s *Storage) RejectSignupRequest(ctx context.Context, requestID int64) (bool, error) {
	const op = "storage.RejectSignupRequest"

	query := `UPDATE signup_requests
			  SET status = $2
			  WHERE id = $1 AND status = $3`
	res, err := s.DB.ExecContext(ctx, query,
		requestID, models.SignupStatusRejected, models.SignupStatusPending)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 1 {
		return true, nil
	}

	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM signup_requests WHERE id = $1)`
	if err = s.DB.QueryRowContext(ctx, existsQuery, requestID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return false, fmt.Errorf("%s: %w", op, ErrRequestNotFound)
	}
	return false, nil
}
