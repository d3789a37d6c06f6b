package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/mocks"
	"github.com/phrazzld/accounts-api/internal/pagination"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/phrazzld/accounts-api/internal/store"
)

func validRegistration() domain.RegistrationData {
	return domain.RegistrationData{
		Email:     "ada@example.com",
		Phone:     "+15550000001",
		Password:  "correct horse battery",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func newTestService(
	t *testing.T,
	accounts *mocks.MockAccountStore,
	hasher auth.PasswordHasher,
) service.AccountService {
	t.Helper()
	paginator := pagination.New[domain.Account, store.AccountFilter](accounts, pagination.Config{
		DefaultLimit: 10,
		MaxLimit:     100,
		DefaultSort:  store.SortCreatedAt,
		SortFields:   store.AccountSortFields,
	})
	svc, err := service.NewAccountService(accounts, hasher, paginator, slog.Default())
	require.NoError(t, err)
	return svc
}

func TestNewAccountService(t *testing.T) {
	tests := []struct {
		name        string
		accounts    store.AccountStore
		hasher      auth.PasswordHasher
		paginator   service.AccountPaginator
		logger      *slog.Logger
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil accounts",
			accounts:    nil,
			hasher:      &mocks.MockPasswordHasher{},
			paginator:   &mocks.MockAccountPaginator{},
			logger:      slog.Default(),
			expectError: true,
			errorMsg:    "accounts",
		},
		{
			name:        "nil hasher",
			accounts:    mocks.NewMockAccountStore(),
			hasher:      nil,
			paginator:   &mocks.MockAccountPaginator{},
			logger:      slog.Default(),
			expectError: true,
			errorMsg:    "hasher",
		},
		{
			name:        "nil paginator",
			accounts:    mocks.NewMockAccountStore(),
			hasher:      &mocks.MockPasswordHasher{},
			paginator:   nil,
			logger:      slog.Default(),
			expectError: true,
			errorMsg:    "paginator",
		},
		{
			name:        "nil logger uses default",
			accounts:    mocks.NewMockAccountStore(),
			hasher:      &mocks.MockPasswordHasher{},
			paginator:   &mocks.MockAccountPaginator{},
			logger:      nil,
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := service.NewAccountService(tt.accounts, tt.hasher, tt.paginator, tt.logger)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, svc)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores hashed password and returns view", func(t *testing.T) {
		accounts := mocks.NewMockAccountStore()
		hasher := &mocks.MockPasswordHasher{}
		svc := newTestService(t, accounts, hasher)

		data := validRegistration()
		view, err := svc.Register(ctx, data)
		require.NoError(t, err)
		require.NotNil(t, view)

		assert.NotEqual(t, uuid.Nil, view.ID)
		assert.Equal(t, data.Email, view.Email)
		assert.Equal(t, data.Phone, view.Phone)
		assert.Equal(t, data.FirstName, view.FirstName)
		assert.Equal(t, data.LastName, view.LastName)
		assert.False(t, view.CreatedAt.IsZero())
		assert.Equal(t, []string{data.Password}, hasher.HashCalledWith)

		stored, ok := accounts.Accounts[view.ID]
		require.True(t, ok)
		assert.Equal(t, "hashed:"+data.Password, stored.PasswordHash)
		assert.NotEqual(t, data.Password, stored.PasswordHash)
	})

	t.Run("view never carries the hash", func(t *testing.T) {
		svc := newTestService(t, mocks.NewMockAccountStore(), &mocks.MockPasswordHasher{})

		view, err := svc.Register(ctx, validRegistration())
		require.NoError(t, err)

		body, err := json.Marshal(view)
		require.NoError(t, err)
		assert.NotContains(t, string(body), "hashed:")
		assert.NotContains(t, string(body), "password")
	})

	t.Run("duplicate email and phone", func(t *testing.T) {
		accounts := mocks.NewMockAccountStore()
		svc := newTestService(t, accounts, &mocks.MockPasswordHasher{})

		_, err := svc.Register(ctx, validRegistration())
		require.NoError(t, err)

		_, err = svc.Register(ctx, validRegistration())
		require.Error(t, err)

		var dup *service.DuplicateAccountError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, map[string]string{
			"email": "ada@example.com",
			"phone": "+15550000001",
		}, dup.Fields)
		assert.Equal(t, "account already exists: email, phone", dup.Error())
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.Len(t, accounts.Accounts, 1)
	})

	t.Run("duplicate without field detail", func(t *testing.T) {
		accounts := mocks.NewMockAccountStore()
		accounts.CreateError = fmt.Errorf("insert account: %w", store.ErrDuplicate)
		svc := newTestService(t, accounts, &mocks.MockPasswordHasher{})

		_, err := svc.Register(ctx, validRegistration())
		var dup *service.DuplicateAccountError
		require.ErrorAs(t, err, &dup)
		assert.Empty(t, dup.Fields)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("schema violation", func(t *testing.T) {
		violation := store.NewValidationError("account", map[string]store.FieldViolation{
			"email": {Field: "email", Rule: "email", Value: "nope", Message: "must be a valid email address"},
		}, nil)
		accounts := mocks.NewMockAccountStore()
		accounts.CreateError = violation
		svc := newTestService(t, accounts, &mocks.MockPasswordHasher{})

		_, err := svc.Register(ctx, validRegistration())
		require.Error(t, err)

		var invalid *service.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, violation.Message, invalid.Message)
		assert.Contains(t, invalid.Fields, "email")
		assert.Equal(t, "email", invalid.Fields["email"].Rule)
	})

	t.Run("password too long propagates hashing error", func(t *testing.T) {
		accounts := mocks.NewMockAccountStore()
		hasher := &mocks.MockPasswordHasher{
			HashFn: func(string) (string, error) { return "", auth.ErrPasswordTooLong },
		}
		svc := newTestService(t, accounts, hasher)

		_, err := svc.Register(ctx, validRegistration())
		assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
		assert.Empty(t, accounts.Accounts)
	})

	t.Run("unclassified store failure is passed through", func(t *testing.T) {
		boom := errors.New("connection reset")
		accounts := mocks.NewMockAccountStore()
		accounts.CreateError = boom
		svc := newTestService(t, accounts, &mocks.MockPasswordHasher{})

		_, err := svc.Register(ctx, validRegistration())
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)

		var dup *service.DuplicateAccountError
		var invalid *service.InvalidInputError
		assert.False(t, errors.As(err, &dup))
		assert.False(t, errors.As(err, &invalid))
	})

	t.Run("hash failure", func(t *testing.T) {
		accounts := mocks.NewMockAccountStore()
		hasher := &mocks.MockPasswordHasher{
			HashFn: func(string) (string, error) { return "", errors.New("entropy exhausted") },
		}
		svc := newTestService(t, accounts, hasher)

		_, err := svc.Register(ctx, validRegistration())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to hash password")
		assert.Empty(t, accounts.Accounts)
	})
}

func TestAccountService_FindByEmailOrPhoneNumber(t *testing.T) {
	ctx := context.Background()
	accounts := mocks.NewMockAccountStore()
	svc := newTestService(t, accounts, &mocks.MockPasswordHasher{})

	view, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	tests := []struct {
		name       string
		credential string
		wantErr    error
	}{
		{name: "by email", credential: "ada@example.com"},
		{name: "by phone", credential: "+15550000001"},
		{name: "unknown", credential: "nobody@example.com", wantErr: service.ErrAccountNotFound},
		{name: "empty", credential: "", wantErr: service.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := svc.FindByEmailOrPhoneNumber(ctx, tt.credential)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, account)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view.ID, account.ID)
			assert.Equal(t, "hashed:correct horse battery", account.PasswordHash)
		})
	}

	t.Run("store failure is not reported as not found", func(t *testing.T) {
		failing := mocks.NewMockAccountStore()
		failing.GetByEmailOrPhoneFn = func(context.Context, string) (*domain.Account, error) {
			return nil, errors.New("timeout")
		}
		svc := newTestService(t, failing, &mocks.MockPasswordHasher{})

		_, err := svc.FindByEmailOrPhoneNumber(ctx, "ada@example.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, service.ErrAccountNotFound)
	})
}

func TestAccountService_GetProfile(t *testing.T) {
	ctx := context.Background()
	accounts := mocks.NewMockAccountStore()
	svc := newTestService(t, accounts, &mocks.MockPasswordHasher{})

	registered, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		view, err := svc.GetProfile(ctx, registered.ID)
		require.NoError(t, err)
		assert.Equal(t, *registered, *view)
	})

	t.Run("repeated reads are identical", func(t *testing.T) {
		first, err := svc.GetProfile(ctx, registered.ID)
		require.NoError(t, err)
		second, err := svc.GetProfile(ctx, registered.ID)
		require.NoError(t, err)
		assert.Equal(t, *first, *second)
		assert.Len(t, accounts.Accounts, 1)
	})

	t.Run("not found", func(t *testing.T) {
		view, err := svc.GetProfile(ctx, uuid.New())
		assert.ErrorIs(t, err, service.ErrAccountNotFound)
		assert.Nil(t, view)
	})

	t.Run("generic store not found", func(t *testing.T) {
		missing := mocks.NewMockAccountStore()
		missing.GetByIDFn = func(context.Context, uuid.UUID) (*domain.Account, error) {
			return nil, fmt.Errorf("lookup: %w", store.ErrNotFound)
		}
		svc := newTestService(t, missing, &mocks.MockPasswordHasher{})

		_, err := svc.GetProfile(ctx, uuid.New())
		assert.ErrorIs(t, err, service.ErrAccountNotFound)
	})
}

func TestAccountService_ListAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("maps items to views and writes headers", func(t *testing.T) {
		accounts := mocks.NewMockAccountStore()
		svc := newTestService(t, accounts, &mocks.MockPasswordHasher{})

		for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			data := validRegistration()
			data.Email = email
			data.Phone = "+1555000000" + string(rune('1'+i))
			_, err := svc.Register(ctx, data)
			require.NoError(t, err)
		}

		header := http.Header{}
		page, err := svc.ListAccounts(ctx, pagination.Request{Page: 1, Limit: 2}, header)
		require.NoError(t, err)

		assert.Len(t, page.Items, 2)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, "3", header.Get(pagination.HeaderTotalCount))
		assert.Equal(t, "2", header.Get(pagination.HeaderPerPage))
	})

	t.Run("search is trimmed into the filter", func(t *testing.T) {
		paginator := &mocks.MockAccountPaginator{}
		svc, err := service.NewAccountService(
			mocks.NewMockAccountStore(), &mocks.MockPasswordHasher{}, paginator, nil)
		require.NoError(t, err)

		_, err = svc.ListAccounts(ctx, pagination.Request{Search: "  ada  "}, nil)
		require.NoError(t, err)
		assert.Equal(t, store.AccountFilter{Search: "ada"}, paginator.LastFilter)

		_, err = svc.ListAccounts(ctx, pagination.Request{Search: "   "}, nil)
		require.NoError(t, err)
		assert.Equal(t, store.AccountFilter{}, paginator.LastFilter)
	})

	t.Run("empty result has non-nil items", func(t *testing.T) {
		svc := newTestService(t, mocks.NewMockAccountStore(), &mocks.MockPasswordHasher{})

		page, err := svc.ListAccounts(ctx, pagination.Request{}, nil)
		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
	})

	t.Run("failure becomes ListingFailedError with original message", func(t *testing.T) {
		accounts := mocks.NewMockAccountStore()
		accounts.CountFn = func(context.Context, store.AccountFilter) (int64, error) {
			return 0, errors.New("text index required")
		}
		svc := newTestService(t, accounts, &mocks.MockPasswordHasher{})

		_, err := svc.ListAccounts(ctx, pagination.Request{Search: "ada"}, nil)
		var failed *service.ListingFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "failed to count records: text index required", failed.Message)
	})

	t.Run("invalid sort is a listing failure", func(t *testing.T) {
		svc := newTestService(t, mocks.NewMockAccountStore(), &mocks.MockPasswordHasher{})

		_, err := svc.ListAccounts(ctx, pagination.Request{Sort: "password_hash"}, nil)
		var failed *service.ListingFailedError
		require.ErrorAs(t, err, &failed)
		assert.ErrorIs(t, err, pagination.ErrInvalidSort)
	})

	t.Run("page too large to address is a listing failure", func(t *testing.T) {
		svc := newTestService(t, mocks.NewMockAccountStore(), &mocks.MockPasswordHasher{})

		page, err := svc.ListAccounts(ctx, pagination.Request{Page: math.MaxInt, Limit: 100}, nil)
		var failed *service.ListingFailedError
		require.ErrorAs(t, err, &failed)
		assert.ErrorIs(t, err, pagination.ErrPageOutOfRange)
		assert.Nil(t, page)
	})
}
