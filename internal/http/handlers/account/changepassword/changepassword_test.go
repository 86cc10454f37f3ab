package changepassword

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/services/errs"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(t *testing.T, body any, user *models.User) *http.Request {
	t.Helper()
	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/change-password", bytes.NewReader(bodyBytes))
	if user != nil {
		ctx := context.WithValue(req.Context(), middlewarectx.User, user)
		req = req.WithContext(ctx)
	}
	return req
}

func TestChangePasswordHandler_ServeHTTP(t *testing.T) {
	user := &models.User{ID: 3, Username: "user1"}

	t.Run("successful change", func(t *testing.T) {
		svcMock := new(AuthServiceMock)
		handler := New(newNoopLogger(), svcMock)

		svcMock.On("ChangePassword", mock.Anything, int64(3), "OldPassword1", "NewPassword1").
			Return(nil).Once()

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest(t, Request{OldPassword: "OldPassword1", NewPassword: "NewPassword1"}, user))

		assert.Equal(t, http.StatusOK, w.Code)
		svcMock.AssertExpectations(t)
	})

	t.Run("missing session user", func(t *testing.T) {
		svcMock := new(AuthServiceMock)
		handler := New(newNoopLogger(), svcMock)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest(t, Request{OldPassword: "OldPassword1", NewPassword: "NewPassword1"}, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svcMock.AssertNotCalled(t, "ChangePassword")
	})

	t.Run("wrong old password", func(t *testing.T) {
		svcMock := new(AuthServiceMock)
		handler := New(newNoopLogger(), svcMock)

		svcMock.On("ChangePassword", mock.Anything, int64(3), "wrongold", "NewPassword1").
			Return(errs.ErrInvalidCredentials).Once()

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest(t, Request{OldPassword: "wrongold", NewPassword: "NewPassword1"}, user))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "invalid credentials")
	})

	t.Run("weak new password", func(t *testing.T) {
		svcMock := new(AuthServiceMock)
		handler := New(newNoopLogger(), svcMock)

		svcMock.On("ChangePassword", mock.Anything, int64(3), "OldPassword1", "short").
			Return(errs.Validation("password must be at least 8 characters")).Once()

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest(t, Request{OldPassword: "OldPassword1", NewPassword: "short"}, user))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
