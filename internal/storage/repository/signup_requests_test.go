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

func TestCreateSignupRequest(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectQuery(`INSERT INTO signup_requests`).
		WithArgs("alice", "alice@example.com", "hash", "pending", int64(1700000000)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))

	id, err := storage.CreateSignupRequest(context.Background(), models.SignupRequest{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Status:       models.SignupStatusPending,
		CreatedAt:    1700000000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)
}

func TestHasPendingRequest(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := storage.HasPendingRequest(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListSignupRequests(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM signup_requests`).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "username", "email", "password_hash", "status", "created_at"}).
			AddRow(int64(11), "bob", "bob@example.com", "hash", "pending", int64(1700000100)).
			AddRow(int64(10), "alice", "alice@example.com", "hash", "pending", int64(1700000000)))

	requests, err := storage.ListSignupRequests(context.Background(), "pending")
	require.NoError(t, err)
	require.Len(t, requests, 2)
	// Новые заявки первыми
	assert.Equal(t, int64(11), requests[0].ID)
	assert.Equal(t, "alice", requests[1].Username)
}

func TestApproveSignupRequest(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM signup_requests\s+WHERE id = \$1\s+FOR UPDATE`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "username", "email", "password_hash", "status"}).
			AddRow(int64(10), "alice", "alice@example.com", "hash", "pending"))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", "hash", "codehash", int64(1700000900)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(`UPDATE signup_requests SET status = \$2 WHERE id = \$1`).
		WithArgs(int64(10), "approved").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user, created, err := storage.ApproveSignupRequest(context.Background(), 10, "codehash", 1700000900)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.EmailVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveSignupRequest_AlreadyDecided(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM signup_requests\s+WHERE id = \$1\s+FOR UPDATE`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "username", "email", "password_hash", "status"}).
			AddRow(int64(10), "alice", "alice@example.com", "hash", "rejected"))
	mock.ExpectRollback()

	user, created, err := storage.ApproveSignupRequest(context.Background(), 10, "codehash", 1700000900)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, user)
}

func TestApproveSignupRequest_NotFound(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM signup_requests\s+WHERE id = \$1\s+FOR UPDATE`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := storage.ApproveSignupRequest(context.Background(), 99, "codehash", 1700000900)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRejectSignupRequest(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectExec(`UPDATE signup_requests\s+SET status = \$2\s+WHERE id = \$1 AND status = \$3`).
		WithArgs(int64(10), "rejected", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rejected, err := storage.RejectSignupRequest(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, rejected)
}

func TestRejectSignupRequest_AlreadyDecided(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectExec(`UPDATE signup_requests\s+SET status = \$2\s+WHERE id = \$1 AND status = \$3`).
		WithArgs(int64(10), "rejected", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM signup_requests WHERE id = \$1\)`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rejected, err := storage.RejectSignupRequest(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, rejected)
}

func TestRejectSignupRequest_NotFound(t *testing.T) {
	storage, mock := newStorageWithMock(t)

	mock.ExpectExec(`UPDATE signup_requests\s+SET status = \$2\s+WHERE id = \$1 AND status = \$3`).
		WithArgs(int64(99), "rejected", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM signup_requests WHERE id = \$1\)`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := storage.RejectSignupRequest(context.Background(), 99)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}
