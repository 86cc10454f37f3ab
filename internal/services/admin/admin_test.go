package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/magabrotheeeer/account-service/internal/models"
	services "github.com/magabrotheeeer/account-service/internal/services/admin"
	"github.com/magabrotheeeer/account-service/internal/services/errs"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *RepoMock) UnlockUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestAdminService_ListUsers(t *testing.T) {
	email := "admin@example.com"
	users := []*models.User{
		{ID: 1, Username: "admin", Email: &email, PasswordHash: "secret", IsAdmin: true, EmailVerified: true},
		{ID: 2, Username: "locked", PasswordHash: "secret", Locked: true},
	}

	repo := new(RepoMock)
	svc := services.NewAdminService(repo, testLogger)

	repo.On("ListUsers", mock.Anything).Return(users, nil).Once()

	got, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "admin", got[0].Username)
	assert.True(t, got[0].IsAdmin)
	assert.Equal(t, &email, got[0].Email)
	assert.True(t, got[1].Locked)

	repo.AssertExpectations(t)
}

func TestAdminService_ListUsers_RepositoryError(t *testing.T) {
	repo := new(RepoMock)
	svc := services.NewAdminService(repo, testLogger)

	repo.On("ListUsers", mock.Anything).Return(nil, errors.New("db error")).Once()

	_, err := svc.ListUsers(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestAdminService_Unlock(t *testing.T) {
	tests := []struct {
		name       string
		userID     int64
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name:   "successful unlock",
			userID: 42,
			setupMocks: func(r *RepoMock) {
				r.On("UnlockUser", mock.Anything, int64(42)).Return(nil).Once()
			},
		},
		{
			name:   "unknown user",
			userID: 99,
			setupMocks: func(r *RepoMock) {
				r.On("UnlockUser", mock.Anything, int64(99)).
					Return(repository.ErrUserNotFound).Once()
			},
			wantErr: errs.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := services.NewAdminService(repo, testLogger)

			tt.setupMocks(repo)

			err := svc.Unlock(context.Background(), tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}
