package memory

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/pagination"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/store"
)

// AccountStore implements store.AccountStore over a map guarded by a RWMutex.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]domain.Account
	logger   *slog.Logger
}

// NewAccountStore creates an empty AccountStore.
// If logger is nil, the default logger is used.
func NewAccountStore(logger *slog.Logger) *AccountStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountStore{
		accounts: make(map[uuid.UUID]domain.Account),
		logger:   logger.With(slog.String("component", "memory_account_store")),
	}
}

var _ store.AccountStore = (*AccountStore)(nil)

// Create implements store.AccountStore.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.ValidateAccount(account); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.ID]; exists {
		return store.NewConflictError(map[string]string{"id": account.ID.String()}, nil)
	}

	collisions := map[string]string{}
	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			collisions["email"] = account.Email
		}
		if existing.Phone == account.Phone {
			collisions["phone"] = account.Phone
		}
	}
	if len(collisions) > 0 {
		return store.NewConflictError(collisions, nil)
	}

	s.accounts[account.ID] = *account

	logger.FromContextOrDefault(ctx, s.logger).Debug("account stored",
		slog.String("account_id", account.ID.String()))
	return nil
}

// GetByID implements store.AccountStore.
func (s *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return &account, nil
}

// GetByEmailOrPhone implements store.AccountStore.
func (s *AccountStore) GetByEmailOrPhone(ctx context.Context, credential string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if credential == "" {
		return nil, store.ErrAccountNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if account.Email == credential || account.Phone == credential {
			found := account
			return &found, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// Count implements store.AccountStore.
func (s *AccountStore) Count(ctx context.Context, filter store.AccountFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.matching(filter))), nil
}

// List implements store.AccountStore.
func (s *AccountStore) List(
	ctx context.Context,
	filter store.AccountFilter,
	window pagination.Window,
) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := s.matching(filter)
	s.mu.RUnlock()

	less := sortKey(window.Sort)
	slices.SortFunc(matched, func(a, b domain.Account) int {
		c := less(a, b)
		if c == 0 {
			c = strings.Compare(a.ID.String(), b.ID.String())
		}
		if window.Desc {
			return -c
		}
		return c
	})

	if window.Offset < 0 || window.Offset >= len(matched) {
		return []domain.Account{}, nil
	}
	end := len(matched)
	if window.Limit > 0 {
		end = min(window.Offset+window.Limit, len(matched))
	}
	return matched[window.Offset:end], nil
}

// matching must be called with s.mu held.
func (s *AccountStore) matching(filter store.AccountFilter) []domain.Account {
	terms := words(filter.Search)

	result := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		if len(terms) == 0 || matchesAll(account, terms) {
			result = append(result, account)
		}
	}
	return result
}

func sortKey(field string) func(a, b domain.Account) int {
	switch field {
	case store.SortEmail:
		return func(a, b domain.Account) int { return cmp.Compare(a.Email, b.Email) }
	case store.SortFirstName:
		return func(a, b domain.Account) int { return cmp.Compare(a.FirstName, b.FirstName) }
	case store.SortLastName:
		return func(a, b domain.Account) int { return cmp.Compare(a.LastName, b.LastName) }
	default:
		return func(a, b domain.Account) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

// matchesAll reports whether every search term is a whole word of the
// account's searchable fields, ignoring case.
func matchesAll(account domain.Account, terms []string) bool {
	indexed := map[string]struct{}{}
	for _, field := range []string{account.Email, account.Phone, account.FirstName, account.LastName} {
		lowered := strings.ToLower(field)
		indexed[lowered] = struct{}{}
		for _, w := range words(lowered) {
			indexed[w] = struct{}{}
		}
	}

	for _, term := range terms {
		if _, ok := indexed[term]; !ok {
			return false
		}
	}
	return true
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '@' && r != '.' && r != '+'
	})
}
