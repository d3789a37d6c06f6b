package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/pagination"
	"github.com/phrazzld/accounts-api/internal/store"
)

// MockAccountStore implements store.AccountStore for testing
type MockAccountStore struct {
	// Function fields for customizable behavior
	CreateFn            func(ctx context.Context, account *domain.Account) error
	GetByIDFn           func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmailOrPhoneFn func(ctx context.Context, credential string) (*domain.Account, error)
	CountFn             func(ctx context.Context, filter store.AccountFilter) (int64, error)
	ListFn              func(ctx context.Context, filter store.AccountFilter, window pagination.Window) ([]domain.Account, error)

	// Data for default implementation
	mu          sync.Mutex
	Accounts    map[uuid.UUID]*domain.Account
	CreateError error
	LastFilter  store.AccountFilter
	LastWindow  pagination.Window
}

// NewMockAccountStore creates a new mock store with initialized defaults
func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		Accounts: make(map[uuid.UUID]*domain.Account),
	}
}

// Create implements the AccountStore interface
func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	fields := map[string]string{}
	for _, existing := range m.Accounts {
		if existing.Email == account.Email {
			fields["email"] = account.Email
		}
		if existing.Phone == account.Phone {
			fields["phone"] = account.Phone
		}
	}
	if len(fields) > 0 {
		return store.NewConflictError(fields, nil)
	}

	if m.Accounts == nil {
		m.Accounts = make(map[uuid.UUID]*domain.Account)
	}
	stored := *account
	m.Accounts[account.ID] = &stored
	return nil
}

// GetByID implements the AccountStore interface
func (m *MockAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.Accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	found := *account
	return &found, nil
}

// GetByEmailOrPhone implements the AccountStore interface
func (m *MockAccountStore) GetByEmailOrPhone(ctx context.Context, credential string) (*domain.Account, error) {
	if m.GetByEmailOrPhoneFn != nil {
		return m.GetByEmailOrPhoneFn(ctx, credential)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, account := range m.Accounts {
		if account.Email == credential || account.Phone == credential {
			found := *account
			return &found, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// Count implements the AccountStore interface
func (m *MockAccountStore) Count(ctx context.Context, filter store.AccountFilter) (int64, error) {
	m.mu.Lock()
	m.LastFilter = filter
	m.mu.Unlock()

	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.Accounts)), nil
}

// List implements the AccountStore interface.
// The default implementation ignores filter and sort.
func (m *MockAccountStore) List(
	ctx context.Context,
	filter store.AccountFilter,
	window pagination.Window,
) ([]domain.Account, error) {
	m.mu.Lock()
	m.LastFilter = filter
	m.LastWindow = window
	m.mu.Unlock()

	if m.ListFn != nil {
		return m.ListFn(ctx, filter, window)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]domain.Account, 0, len(m.Accounts))
	for _, account := range m.Accounts {
		all = append(all, *account)
	}
	if window.Offset >= len(all) {
		return []domain.Account{}, nil
	}
	end := min(window.Offset+window.Limit, len(all))
	return all[window.Offset:end], nil
}
