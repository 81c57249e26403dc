package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cardvault/internal/auth"
	"cardvault/internal/model"
)

func newTestAuthService(users *MockUserRepository) AuthService {
	return NewAuthService(users, auth.NewJWTService("test-signing-secret"))
}

func enabledUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		ID:           1,
		Username:     "alice",
		PasswordHash: hash,
		Role:         model.RoleUser,
		Enabled:      true,
	}
}

func TestAuthServiceLogin(t *testing.T) {
	t.Run("issues a token carrying username and role", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)

		users.On("FindByUsername", mock.Anything, "alice").
			Return(enabledUser(t, "password1"), nil)

		token, user, err := svc.Login(context.Background(), "alice", "password1")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		claims, err := auth.NewJWTService("test-signing-secret").ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "USER", claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)

		users.On("FindByUsername", mock.Anything, "alice").
			Return(enabledUser(t, "password1"), nil)

		_, _, err := svc.Login(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)

		users.On("FindByUsername", mock.Anything, "ghost").
			Return(nil, gorm.ErrRecordNotFound)

		_, _, err := svc.Login(context.Background(), "ghost", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestAuthService(users)

		user := enabledUser(t, "password1")
		user.Enabled = false
		users.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

		_, _, err := svc.Login(context.Background(), "alice", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
