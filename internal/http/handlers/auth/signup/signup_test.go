package signup

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

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/services/errs"
)

type SignupServiceMock struct {
	mock.Mock
}

func (m *SignupServiceMock) Submit(ctx context.Context, username, email, password string) error {
	args := m.Called(ctx, username, email, password)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSignupHandler_ServeHTTP(t *testing.T) {
	validBody := Request{Username: "newuser", Email: "new@example.com", Password: "Password1"}

	tests := []struct {
		name           string
		requestBody    any
		mockErr        error
		setupMock      bool
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "valid signup",
			requestBody:    validBody,
			setupMock:      true,
			wantStatusCode: http.StatusOK,
			wantStatus:     response.StatusOK,
		},
		{
			name:           "invalid email",
			requestBody:    Request{Username: "newuser", Email: "not-an-email", Password: "Password1"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     response.StatusError,
			wantError:      "field Email must be a valid email address",
		},
		{
			name:           "username taken",
			requestBody:    validBody,
			setupMock:      true,
			mockErr:        errs.ErrUsernameTaken,
			wantStatusCode: http.StatusConflict,
			wantStatus:     response.StatusError,
			wantError:      "username is already taken",
		},
		{
			name:           "email taken",
			requestBody:    validBody,
			setupMock:      true,
			mockErr:        errs.ErrEmailTaken,
			wantStatusCode: http.StatusConflict,
			wantStatus:     response.StatusError,
			wantError:      "email is already taken",
		},
		{
			name:           "weak password",
			requestBody:    Request{Username: "newuser", Email: "new@example.com", Password: "alllowercase"},
			setupMock:      true,
			mockErr:        errs.Validation("password must contain an uppercase letter"),
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     response.StatusError,
			wantError:      "uppercase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(SignupServiceMock)
			handler := New(newNoopLogger(), svcMock)

			if tt.setupMock {
				req := tt.requestBody.(Request)
				svcMock.On("Submit", mock.Anything, req.Username, req.Email, req.Password).
					Return(tt.mockErr).Once()
			}

			bodyBytes, err := json.Marshal(tt.requestBody)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/signup", bytes.NewReader(bodyBytes))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			if tt.wantError != "" {
				assert.Contains(t, resp.Error, tt.wantError)
			}

			svcMock.AssertExpectations(t)
		})
	}
}
