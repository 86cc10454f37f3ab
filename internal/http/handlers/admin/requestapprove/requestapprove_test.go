package requestapprove

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/services/errs"
)

type SignupServiceMock struct {
	mock.Mock
}

func (m *SignupServiceMock) Approve(ctx context.Context, requestID int64) (string, bool, error) {
	args := m.Called(ctx, requestID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/signup-requests/"+id+"/approve", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestRequestApproveHandler_ServeHTTP(t *testing.T) {
	t.Run("approval returns one-time code", func(t *testing.T) {
		svcMock := new(SignupServiceMock)
		handler := New(newNoopLogger(), svcMock)

		svcMock.On("Approve", mock.Anything, int64(10)).Return("123456", true, nil).Once()

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest("10"))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, "123456", data["verification_code"])
		svcMock.AssertExpectations(t)
	})

	t.Run("already decided request omits code", func(t *testing.T) {
		svcMock := new(SignupServiceMock)
		handler := New(newNoopLogger(), svcMock)

		svcMock.On("Approve", mock.Anything, int64(10)).Return("", false, nil).Once()

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest("10"))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		_, hasCode := data["verification_code"]
		assert.False(t, hasCode)
	})

	t.Run("unknown request", func(t *testing.T) {
		svcMock := new(SignupServiceMock)
		handler := New(newNoopLogger(), svcMock)

		svcMock.On("Approve", mock.Anything, int64(99)).Return("", false, errs.ErrNotFound).Once()

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest("99"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		svcMock := new(SignupServiceMock)
		handler := New(newNoopLogger(), svcMock)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest("abc"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svcMock.AssertNotCalled(t, "Approve")
	})
}
