package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"cardvault/internal/model"
	"cardvault/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteByID(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCardRepository is a mock implementation of repository.CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) FindByID(ctx context.Context, id uint) (*model.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardRepository) FindByHash(ctx context.Context, hash string) (*model.Card, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardRepository) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	args := m.Called(ctx, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardRepository) ListByUserID(ctx context.Context, userID uint, req repository.PageRequest) (repository.Page[model.Card], error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(repository.Page[model.Card]), args.Error(1)
}

func (m *MockCardRepository) ListByStatus(ctx context.Context, status model.CardStatus, req repository.PageRequest) (repository.Page[model.Card], error) {
	args := m.Called(ctx, status, req)
	return args.Get(0).(repository.Page[model.Card]), args.Error(1)
}

func (m *MockCardRepository) ListByUserIDAndStatus(ctx context.Context, userID uint, status model.CardStatus, req repository.PageRequest) (repository.Page[model.Card], error) {
	args := m.Called(ctx, userID, status, req)
	return args.Get(0).(repository.Page[model.Card]), args.Error(1)
}

func (m *MockCardRepository) ListAll(ctx context.Context, req repository.PageRequest) (repository.Page[model.Card], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(repository.Page[model.Card]), args.Error(1)
}

func (m *MockCardRepository) ListByExpirationBefore(ctx context.Context, date model.Date) ([]model.Card, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Card), args.Error(1)
}

func (m *MockCardRepository) Save(ctx context.Context, card *model.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, card *model.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByFromUserID(ctx context.Context, userID uint, req repository.PageRequest) (repository.Page[model.Transaction], error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(repository.Page[model.Transaction]), args.Error(1)
}

func (m *MockTransactionRepository) ListByToUserID(ctx context.Context, userID uint, req repository.PageRequest) (repository.Page[model.Transaction], error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(repository.Page[model.Transaction]), args.Error(1)
}

// fakeTxManager runs the unit-of-work function against the given mocks
// without any real transaction semantics.
type fakeTxManager struct {
	repos repository.Repositories
}

func newFakeTxManager(users *MockUserRepository, cards *MockCardRepository, transactions *MockTransactionRepository) *fakeTxManager {
	return &fakeTxManager{repos: repository.Repositories{
		Users:        users,
		Cards:        cards,
		Transactions: transactions,
	}}
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(tx repository.Repositories) error) error {
	return fn(m.repos)
}

// fakeCache is an in-memory Cache for exercising hit paths without redis.
type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	return f.data[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}
