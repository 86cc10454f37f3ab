package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его ID
func (f *TestDataFactory) CreateUser(t *testing.T, username, email, passwordHash string, isAdmin bool) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO users (username, email, password_hash, is_admin, email_verified)
		VALUES ($1, $2, $3, $4, TRUE) RETURNING id`,
		username, email, passwordHash, isAdmin).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateSession создает тестовую сессию
func (f *TestDataFactory) CreateSession(t *testing.T, token string, userID, expiresAt int64) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		token, userID, expiresAt)
	require.NoError(t, err)
}

// CreateSignupRequest создает тестовую заявку и возвращает её ID
func (f *TestDataFactory) CreateSignupRequest(t *testing.T, username, email, passwordHash, status string, createdAt int64) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO signup_requests (username, email, password_hash, status, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		username, email, passwordHash, status, createdAt).Scan(&id)
	require.NoError(t, err)
	return id
}

// GetTestUserData возвращает стандартные тестовые данные пользователя
func GetTestUserData() models.User {
	email := "test@example.com"
	return models.User{
		Username:      "testuser",
		Email:         &email,
		PasswordHash:  "hashedpassword",
		EmailVerified: true,
	}
}
