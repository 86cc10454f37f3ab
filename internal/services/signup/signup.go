// Package services содержит логику бизнес-уровня для заявок на
// регистрацию: подачу, одобрение с созданием учётной записи,
// отклонение и выборку.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/account-service/internal/events"
	"github.com/magabrotheeeer/account-service/internal/lib/password"
	"github.com/magabrotheeeer/account-service/internal/lib/token"
	"github.com/magabrotheeeer/account-service/internal/metrics"
	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/services/errs"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// Repository описывает контракт хранилища для работы с заявками.
type Repository interface {
	// UsernameTaken сообщает, занято ли имя существующей учётной записью.
	UsernameTaken(ctx context.Context, username string) (bool, error)

	// EmailTaken сообщает, занята ли почта существующей учётной записью.
	EmailTaken(ctx context.Context, email string) (bool, error)

	// HasPendingRequest сообщает о необработанной заявке с этим именем.
	HasPendingRequest(ctx context.Context, username string) (bool, error)

	// CreateSignupRequest сохраняет заявку и возвращает её ID.
	CreateSignupRequest(ctx context.Context, req models.SignupRequest) (int64, error)

	// ListSignupRequests возвращает заявки по статусу, новые первыми.
	ListSignupRequests(ctx context.Context, status string) ([]*models.SignupRequest, error)

	// ApproveSignupRequest одобряет заявку и создает учётную запись
	// в одной транзакции; (nil, false) для уже рассмотренной заявки.
	ApproveSignupRequest(ctx context.Context, requestID int64, codeHash string, codeExpiresAt int64) (*models.User, bool, error)

	// RejectSignupRequest отклоняет заявку; false для уже рассмотренной.
	RejectSignupRequest(ctx context.Context, requestID int64) (bool, error)
}

// SignupService реализует жизненный цикл заявок на регистрацию.
type SignupService struct {
	repo    Repository
	hasher  *password.Hasher
	events  events.Publisher
	codeTTL time.Duration
	log     *slog.Logger

	now func() time.Time
}

// NewSignupService создает новый экземпляр SignupService.
func NewSignupService(repo Repository, hasher *password.Hasher, pub events.Publisher,
	codeTTL time.Duration, log *slog.Logger) *SignupService {
	return &SignupService{
		repo:    repo,
		hasher:  hasher,
		events:  pub,
		codeTTL: codeTTL,
		log:     log,
		now:     time.Now,
	}
}

// Submit принимает заявку на регистрацию. Повторная подача при живой
// pending-заявке с тем же именем идемпотентна: вторая строка не создается.
func (s *SignupService) Submit(ctx context.Context, username, email, rawPassword string) error {
	const op = "signup.Submit"

	taken, err := s.repo.UsernameTaken(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return errs.ErrUsernameTaken
	}
	taken, err = s.repo.EmailTaken(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return errs.ErrEmailTaken
	}

	if err = password.CheckStrength(rawPassword); err != nil {
		return errs.Validation("%s", err.Error())
	}

	pending, err := s.repo.HasPendingRequest(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if pending {
		return nil
	}

	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req := models.SignupRequest{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Status:       models.SignupStatusPending,
		CreatedAt:    s.now().Unix(),
	}
	id, err := s.repo.CreateSignupRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.SignupRequestsSubmitted.Inc()
	s.events.Publish(events.KindSignupSubmitted, username, id)
	s.log.Info("signup request submitted",
		slog.Int64("request_id", id), slog.String("username", username))
	return nil
}

// Approve одобряет заявку и возвращает одноразовый код подтверждения.
// Код показывается ровно один раз: хранится только его хэш, передать код
// владельцу — обязанность администратора. Повторное одобрение уже
// рассмотренной заявки успешно, но кода не возвращает.
func (s *SignupService) Approve(ctx context.Context, requestID int64) (string, bool, error) {
	const op = "signup.Approve"

	code, err := token.NewCode()
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	codeHash, err := s.hasher.Hash(code)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	expiresAt := s.now().Add(s.codeTTL).Unix()

	user, created, err := s.repo.ApproveSignupRequest(ctx, requestID, codeHash, expiresAt)
	if errors.Is(err, repository.ErrRequestNotFound) {
		return "", false, errs.ErrNotFound
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	if !created {
		return "", false, nil
	}

	s.events.Publish(events.KindSignupApproved, user.Username, requestID)
	s.log.Info("signup request approved",
		slog.Int64("request_id", requestID), slog.Int64("user_id", user.ID))
	return code, true, nil
}

// Reject отклоняет заявку. Повторное отклонение — успешный no-op.
func (s *SignupService) Reject(ctx context.Context, requestID int64) error {
	const op = "signup.Reject"

	rejected, err := s.repo.RejectSignupRequest(ctx, requestID)
	if errors.Is(err, repository.ErrRequestNotFound) {
		return errs.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rejected {
		s.events.Publish(events.KindSignupRejected, "", requestID)
		s.log.Info("signup request rejected", slog.Int64("request_id", requestID))
	}
	return nil
}

// List возвращает заявки по фильтру pending|approved|rejected|all.
// Незнакомый фильтр — ошибка валидации.
func (s *SignupService) List(ctx context.Context, statusFilter string) ([]*models.SignupRequest, error) {
	const op = "signup.List"

	var status string
	switch statusFilter {
	case models.SignupStatusPending, models.SignupStatusApproved, models.SignupStatusRejected:
		status = statusFilter
	case "all":
		status = ""
	default:
		return nil, errs.Validation("invalid status filter: %s", statusFilter)
	}

	result, err := s.repo.ListSignupRequests(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
