package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/pagination"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/phrazzld/accounts-api/internal/store"
)

// AccountService provides account registration, lookup and listing.
type AccountService interface {
	// Register hashes the password and stores a new account.
	// Returns *DuplicateAccountError or *InvalidInputError for the two
	// classified storage failures; any other failure is returned wrapped.
	Register(ctx context.Context, data domain.RegistrationData) (*domain.AccountView, error)

	// FindByEmailOrPhoneNumber returns the full account, hash included, whose
	// email or phone equals credential. For internal callers only.
	FindByEmailOrPhoneNumber(ctx context.Context, credential string) (*domain.Account, error)

	// GetProfile returns the public view of the account with the given id.
	GetProfile(ctx context.Context, accountID uuid.UUID) (*domain.AccountView, error)

	// ListAccounts returns one page of accounts, filtered by req.Search when set.
	// Any failure is returned as *ListingFailedError.
	ListAccounts(ctx context.Context, req pagination.Request, sink pagination.Sink) (*pagination.Page[domain.AccountView], error)
}

// AccountPaginator pages over accounts matching a store filter.
// *pagination.Paginator[domain.Account, store.AccountFilter] implements it.
type AccountPaginator interface {
	Paginate(
		ctx context.Context,
		filter store.AccountFilter,
		req pagination.Request,
		sink pagination.Sink,
	) (*pagination.Page[domain.Account], error)
}

type accountServiceImpl struct {
	accounts  store.AccountStore
	hasher    auth.PasswordHasher
	paginator AccountPaginator
	logger    *slog.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(
	accounts store.AccountStore,
	hasher auth.PasswordHasher,
	paginator AccountPaginator,
	logger *slog.Logger,
) (AccountService, error) {
	if accounts == nil {
		return nil, domain.NewValidationError("accounts", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if paginator == nil {
		return nil, domain.NewValidationError("paginator", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &accountServiceImpl{
		accounts:  accounts,
		hasher:    hasher,
		paginator: paginator,
		logger:    logger.With(slog.String("component", "account_service")),
	}, nil
}

// Register implements AccountService.Register
func (s *accountServiceImpl) Register(ctx context.Context, data domain.RegistrationData) (*domain.AccountView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	hash, err := s.hasher.Hash(data.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := domain.NewAccount(data, hash)

	if err := s.accounts.Create(ctx, account); err != nil {
		if store.IsDuplicateError(err) {
			var fields map[string]string
			var conflict *store.ConflictError
			if errors.As(err, &conflict) {
				fields = maps.Clone(conflict.Fields)
			}
			log.Debug("registration rejected: duplicate key",
				slog.Any("fields", slices.Sorted(maps.Keys(fields))))
			return nil, &DuplicateAccountError{Fields: fields, Err: err}
		}

		var invalid *store.ValidationError
		if errors.As(err, &invalid) {
			log.Debug("registration rejected: invalid input",
				slog.Int("violations", len(invalid.Fields)))
			return nil, &InvalidInputError{
				Message: invalid.Message,
				Fields:  maps.Clone(invalid.Fields),
				Err:     err,
			}
		}

		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Info("account registered", slog.String("account_id", account.ID.String()))

	view := domain.NewAccountView(account)
	return &view, nil
}

// FindByEmailOrPhoneNumber implements AccountService.FindByEmailOrPhoneNumber
func (s *accountServiceImpl) FindByEmailOrPhoneNumber(ctx context.Context, credential string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := s.accounts.GetByEmailOrPhone(ctx, credential)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("no account for credential")
			return nil, fmt.Errorf("%w: %v", ErrAccountNotFound, err)
		}
		log.Error("failed to look up account by credential", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	return account, nil
}

// GetProfile implements AccountService.GetProfile
func (s *accountServiceImpl) GetProfile(ctx context.Context, accountID uuid.UUID) (*domain.AccountView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("account not found", slog.String("account_id", accountID.String()))
			return nil, fmt.Errorf("%w: %v", ErrAccountNotFound, err)
		}
		log.Error("failed to retrieve account",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}

	view := domain.NewAccountView(account)
	return &view, nil
}

// ListAccounts implements AccountService.ListAccounts
func (s *accountServiceImpl) ListAccounts(
	ctx context.Context,
	req pagination.Request,
	sink pagination.Sink,
) (*pagination.Page[domain.AccountView], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var filter store.AccountFilter
	if search := strings.TrimSpace(req.Search); search != "" {
		filter.Search = search
	}

	page, err := s.paginator.Paginate(ctx, filter, req, sink)
	if err != nil {
		log.Warn("failed to list accounts", slog.String("error", err.Error()))
		return nil, &ListingFailedError{Message: err.Error(), Err: err}
	}

	return pagination.Map(page, domain.NewAccountViews), nil
}
