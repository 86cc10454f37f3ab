// Package services содержит административные операции над
// учётными записями: просмотр и ручное снятие блокировки.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/services/errs"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// Repository описывает контракт хранилища для административных операций.
type Repository interface {
	// ListUsers возвращает все учётные записи по возрастанию ID.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UnlockUser снимает блокировку и обнуляет счётчик неудачных входов.
	UnlockUser(ctx context.Context, userID int64) error
}

// AdminService реализует административные операции.
type AdminService struct {
	repo Repository
	log  *slog.Logger
}

// NewAdminService создает новый экземпляр AdminService.
func NewAdminService(repo Repository, log *slog.Logger) *AdminService {
	return &AdminService{repo: repo, log: log}
}

// ListUsers возвращает сводки всех учётных записей без секретов.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	const op = "admin.ListUsers"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		result = append(result, u.Summary())
	}
	return result, nil
}

// Unlock снимает блокировку входа с учётной записи. Снятие блокировки
// с незаблокированной записи — успешный no-op.
func (s *AdminService) Unlock(ctx context.Context, userID int64) error {
	const op = "admin.Unlock"

	err := s.repo.UnlockUser(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return errs.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user unlocked", slog.Int64("user_id", userID))
	return nil
}
