package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/models"
)

func TestCreateSession(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs("tok1", int64(7), int64(1700604800)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := storage.CreateSession(context.Background(), models.Session{
		Token:     "tok1",
		UserID:    7,
		ExpiresAt: 1700604800,
	})
	assert.NoError(t, err)
}

func TestResolveSession(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM sessions s\s+JOIN users u ON u\.id = s\.user_id`).
		WithArgs("tok1", int64(1700000000)).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, userRows...), "expires_at")).
			AddRow(int64(7), "alice", "alice@example.com", "hash", false, false,
				0, nil, false, true, nil, nil, int64(1700604800)))

	u, expiresAt, err := storage.ResolveSession(context.Background(), "tok1", 1700000000)
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, int64(1700604800), expiresAt)
}

func TestResolveSession_ExpiredOrMissing(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM sessions s`).
		WithArgs("tok1", int64(1700604801)).
		WillReturnError(sql.ErrNoRows)

	_, _, err := storage.ResolveSession(context.Background(), "tok1", 1700604801)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession_Idempotent(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectExec(`DELETE FROM sessions WHERE token = \$1`).
		WithArgs("unknown").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := storage.DeleteSession(context.Background(), "unknown")
	assert.NoError(t, err)
}
