package service

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"cardvault/internal/errors"
	"cardvault/internal/model"
	"cardvault/internal/repository"
)

// CreateUserParams carries the validated inputs of user creation/update.
type CreateUserParams struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Role      model.Role
}

// UserService handles admin-driven user management. All operations are
// restricted to admins at the HTTP boundary.
type UserService interface {
	Create(ctx context.Context, params CreateUserParams) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint, params CreateUserParams) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	userRepo  repository.UserRepository
	txManager repository.TxManager
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, txManager repository.TxManager) UserService {
	return &userService{userRepo: userRepo, txManager: txManager}
}

// Create registers a new user with a bcrypt password verifier. Username
// and email must be unique.
func (s *userService) Create(ctx context.Context, params CreateUserParams) (*model.User, error) {
	var user *model.User
	err := s.txManager.Do(ctx, func(tx repository.Repositories) error {
		if taken, err := tx.Users.ExistsByUsername(ctx, params.Username); err != nil {
			return err
		} else if taken {
			return errors.ValidationFailure("Username is already taken")
		}
		if taken, err := tx.Users.ExistsByEmail(ctx, params.Email); err != nil {
			return err
		} else if taken {
			return errors.ValidationFailure("Email is already in use")
		}

		hash, err := HashPassword(params.Password)
		if err != nil {
			return err
		}

		user = &model.User{
			Username:     params.Username,
			Email:        params.Email,
			PasswordHash: hash,
			FirstName:    params.FirstName,
			LastName:     params.LastName,
			Role:         params.Role,
			Enabled:      true,
		}
		return tx.Users.Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.UserNotFound("User not found with id: %d", id)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindAll(ctx)
}

// Update replaces the mutable attributes of a user, re-deriving the
// password verifier.
func (s *userService) Update(ctx context.Context, id uint, params CreateUserParams) (*model.User, error) {
	var user *model.User
	err := s.txManager.Do(ctx, func(tx repository.Repositories) error {
		found, err := tx.Users.FindByID(ctx, id)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.UserNotFound("User not found with id: %d", id)
			}
			return err
		}

		if params.Username != found.Username {
			if taken, err := tx.Users.ExistsByUsername(ctx, params.Username); err != nil {
				return err
			} else if taken {
				return errors.ValidationFailure("Username is already taken")
			}
		}
		if params.Email != found.Email {
			if taken, err := tx.Users.ExistsByEmail(ctx, params.Email); err != nil {
				return err
			} else if taken {
				return errors.ValidationFailure("Email is already in use")
			}
		}

		hash, err := HashPassword(params.Password)
		if err != nil {
			return err
		}

		found.Username = params.Username
		found.Email = params.Email
		found.PasswordHash = hash
		found.FirstName = params.FirstName
		found.LastName = params.LastName
		found.Role = params.Role

		if err := tx.Users.Save(ctx, found); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user permanently. There is no tombstone.
func (s *userService) Delete(ctx context.Context, id uint) error {
	return s.txManager.Do(ctx, func(tx repository.Repositories) error {
		exists, err := tx.Users.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return errors.UserNotFound("User not found with id: %d", id)
		}
		return tx.Users.DeleteByID(ctx, id)
	})
}
