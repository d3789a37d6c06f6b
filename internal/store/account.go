package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/pagination"
)

// Sort fields every AccountStore accepts in pagination.Window.Sort.
const (
	SortCreatedAt = "created_at"
	SortEmail     = "email"
	SortFirstName = "first_name"
	SortLastName  = "last_name"
)

// AccountSortFields lists the sortable account fields.
var AccountSortFields = []string{SortCreatedAt, SortEmail, SortFirstName, SortLastName}

// AccountFilter selects accounts for Count and List. The zero value matches all.
type AccountFilter struct {
	// Search is a full-text query over email, phone, first and last name.
	Search string
}

// AccountStore defines the interface for account persistence.
type AccountStore interface {
	// Create saves a new account.
	// Returns *ValidationError if the account breaks the schema.
	// Returns *ConflictError if email or phone is already taken.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique ID.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByEmailOrPhone retrieves the account whose email or phone equals credential.
	// Returns ErrAccountNotFound if no account matches.
	GetByEmailOrPhone(ctx context.Context, credential string) (*domain.Account, error)

	// Count returns the number of accounts matching filter.
	Count(ctx context.Context, filter AccountFilter) (int64, error)

	// List returns the window of accounts matching filter.
	// window.Sort must be one of AccountSortFields; ties are broken by ID.
	List(ctx context.Context, filter AccountFilter, window pagination.Window) ([]domain.Account, error)
}
