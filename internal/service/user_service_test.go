package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cardvault/internal/errors"
	"cardvault/internal/model"
)

func newTestUserService(users *MockUserRepository) UserService {
	return NewUserService(users, newFakeTxManager(users, &MockCardRepository{}, &MockTransactionRepository{}))
}

func TestUserServiceCreate(t *testing.T) {
	params := CreateUserParams{
		Username:  "bob",
		Password:  "secret123",
		Email:     "bob@example.com",
		FirstName: "Bob",
		LastName:  "Jones",
		Role:      model.RoleUser,
	}

	t.Run("success", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestUserService(users)

		users.On("ExistsByUsername", mock.Anything, "bob").Return(false, nil)
		users.On("ExistsByEmail", mock.Anything, "bob@example.com").Return(false, nil)
		users.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := svc.Create(context.Background(), params)
		require.NoError(t, err)

		assert.Equal(t, "bob", user.Username)
		assert.True(t, user.Enabled)
		assert.NotEqual(t, "secret123", user.PasswordHash, "password must not be stored in the clear")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	})

	t.Run("username taken", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestUserService(users)

		users.On("ExistsByUsername", mock.Anything, "bob").Return(true, nil)

		_, err := svc.Create(context.Background(), params)
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindValidationFailure))
		assert.Equal(t, "Username is already taken", err.Error())
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("email in use", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestUserService(users)

		users.On("ExistsByUsername", mock.Anything, "bob").Return(false, nil)
		users.On("ExistsByEmail", mock.Anything, "bob@example.com").Return(true, nil)

		_, err := svc.Create(context.Background(), params)
		require.Error(t, err)
		assert.Equal(t, "Email is already in use", err.Error())
	})
}

func TestUserServiceGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestUserService(users)

		users.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, Username: "bob"}, nil)

		user, err := svc.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "bob", user.Username)
	})

	t.Run("missing", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestUserService(users)

		users.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetByID(context.Background(), 42)
		assert.True(t, errors.IsKind(err, errors.KindUserNotFound))
	})
}

func TestUserServiceUpdate(t *testing.T) {
	existing := func() *model.User {
		return &model.User{
			ID:       1,
			Username: "bob",
			Email:    "bob@example.com",
			Role:     model.RoleUser,
		}
	}

	t.Run("renames and rehashes", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestUserService(users)

		users.On("FindByID", mock.Anything, uint(1)).Return(existing(), nil)
		users.On("ExistsByUsername", mock.Anything, "robert").Return(false, nil)
		users.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := svc.Update(context.Background(), 1, CreateUserParams{
			Username: "robert",
			Password: "newpass99",
			Email:    "bob@example.com",
			Role:     model.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, "robert", user.Username)
		assert.Equal(t, model.RoleAdmin, user.Role)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpass99")))
	})

	t.Run("new username taken", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestUserService(users)

		users.On("FindByID", mock.Anything, uint(1)).Return(existing(), nil)
		users.On("ExistsByUsername", mock.Anything, "robert").Return(true, nil)

		_, err := svc.Update(context.Background(), 1, CreateUserParams{
			Username: "robert",
			Email:    "bob@example.com",
		})
		require.Error(t, err)
		assert.Equal(t, "Username is already taken", err.Error())
	})

	t.Run("unchanged username skips uniqueness check", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestUserService(users)

		users.On("FindByID", mock.Anything, uint(1)).Return(existing(), nil)
		users.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		_, err := svc.Update(context.Background(), 1, CreateUserParams{
			Username: "bob",
			Email:    "bob@example.com",
			Role:     model.RoleUser,
		})
		require.NoError(t, err)
		users.AssertNotCalled(t, "ExistsByUsername", mock.Anything, mock.Anything)
	})
}

func TestUserServiceDelete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestUserService(users)

		users.On("ExistsByID", mock.Anything, uint(1)).Return(true, nil)
		users.On("DeleteByID", mock.Anything, uint(1)).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), 1))
		users.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newTestUserService(users)

		users.On("ExistsByID", mock.Anything, uint(42)).Return(false, nil)

		err := svc.Delete(context.Background(), 42)
		assert.True(t, errors.IsKind(err, errors.KindUserNotFound))
		users.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})
}
