package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/pagination"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/store"
)

const accountColumns = `id, email, phone, password_hash, first_name, last_name, created_at, updated_at`

// searchPredicate matches the generated search_vector column against a plain
// text query. 'simple' keeps tokens unstemmed so names and emails match verbatim.
const searchPredicate = `search_vector @@ plainto_tsquery('simple', $1)`

var sortColumns = map[string]string{
	store.SortCreatedAt: "created_at",
	store.SortEmail:     "email",
	store.SortFirstName: "first_name",
	store.SortLastName:  "last_name",
}

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the AccountStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// Create implements store.AccountStore.Create
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateAccount(account); err != nil {
		log.Debug("account validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Email,
		account.Phone,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		mapped := mapAccountWriteError(err, account)
		if mapped == err {
			log.Error("failed to create account",
				slog.String("error", err.Error()),
				slog.String("account_id", account.ID.String()))
			return fmt.Errorf("failed to create account: %w", err)
		}
		log.Debug("account insert rejected",
			slog.String("error", mapped.Error()),
			slog.String("account_id", account.ID.String()))
		return mapped
	}

	log.Debug("account created", slog.String("account_id", account.ID.String()))
	return nil
}

// GetByID implements store.AccountStore.GetByID
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByEmailOrPhone implements store.AccountStore.GetByEmailOrPhone
func (s *PostgresAccountStore) GetByEmailOrPhone(ctx context.Context, credential string) (*domain.Account, error) {
	if credential == "" {
		return nil, store.ErrAccountNotFound
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 OR phone = $1 LIMIT 1`
	return s.getOne(ctx, query, credential)
}

func (s *PostgresAccountStore) getOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	account, err := scanAccount(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve account",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve account: %w", MapError(err))
	}
	return account, nil
}

// Count implements store.AccountStore.Count
func (s *PostgresAccountStore) Count(ctx context.Context, filter store.AccountFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM accounts`
	var args []any
	if filter.Search != "" {
		query += ` WHERE ` + searchPredicate
		args = append(args, filter.Search)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count accounts",
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to count accounts: %w", MapError(err))
	}
	return total, nil
}

// List implements store.AccountStore.List
func (s *PostgresAccountStore) List(
	ctx context.Context,
	filter store.AccountFilter,
	window pagination.Window,
) ([]domain.Account, error) {
	query, args, err := buildListQuery(filter, window)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list accounts",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	accounts := make([]domain.Account, 0, window.Limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", MapError(err))
	}

	return accounts, nil
}

func buildListQuery(filter store.AccountFilter, window pagination.Window) (string, []any, error) {
	column := sortColumns[store.SortCreatedAt]
	if window.Sort != "" {
		var ok bool
		column, ok = sortColumns[window.Sort]
		if !ok {
			return "", nil, fmt.Errorf("%w: %q", pagination.ErrInvalidSort, window.Sort)
		}
	}

	direction := "ASC"
	if window.Desc {
		direction = "DESC"
	}

	var b strings.Builder
	var args []any
	b.WriteString(`SELECT ` + accountColumns + ` FROM accounts`)
	if filter.Search != "" {
		args = append(args, filter.Search)
		b.WriteString(` WHERE ` + searchPredicate)
	}
	fmt.Fprintf(&b, ` ORDER BY %s %s, id %s`, column, direction, direction)

	args = append(args, window.Limit, window.Offset)
	fmt.Fprintf(&b, ` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	return b.String(), args, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.Phone,
		&a.PasswordHash,
		&a.FirstName,
		&a.LastName,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}
