package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"

	// stringTooLongCode is raised when a value exceeds a VARCHAR(n) limit
	stringTooLongCode = "22001"
)

// Constraint names from migrations/00001_create_accounts_table.sql mapped to
// the account field they guard.
var accountConstraintFields = map[string]string{
	"accounts_pkey":             "id",
	"accounts_email_key":        "email",
	"accounts_phone_key":        "phone",
	"accounts_email_check":      "email",
	"accounts_phone_check":      "phone",
	"accounts_first_name_check": "first_name",
	"accounts_last_name_check":  "last_name",
}

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case checkViolationCode:
			return fmt.Errorf(
				"%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ColumnName,
				err,
			)
		}
	}

	return err
}

// mapAccountWriteError classifies a failed account insert.
// Unique violations become *store.ConflictError carrying the colliding value;
// check, not-null and length violations become *store.ValidationError.
// Anything else is returned unchanged.
func mapAccountWriteError(err error, account *domain.Account) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	if IsUniqueViolation(pgErr) {
		field := constraintField(pgErr)
		return store.NewConflictError(map[string]string{field: accountFieldValue(account, field)}, err)
	}

	switch pgErr.Code {
	case checkViolationCode, notNullViolationCode, stringTooLongCode:
		field := constraintField(pgErr)
		rule := violationRule(pgErr.Code)
		violation := store.FieldViolation{
			Field:   field,
			Rule:    rule,
			Message: violationMessage(field, rule),
		}
		if field != "password" {
			violation.Value = accountFieldValue(account, field)
		}
		return store.NewValidationError("account", map[string]store.FieldViolation{field: violation}, err)
	}

	return err
}

func constraintField(pgErr *pgconn.PgError) string {
	if field, ok := accountConstraintFields[pgErr.ConstraintName]; ok {
		return field
	}
	if pgErr.ColumnName == "password_hash" {
		return "password"
	}
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return "account"
}

func violationRule(code string) string {
	switch code {
	case notNullViolationCode:
		return "required"
	case stringTooLongCode:
		return "max"
	default:
		return "check"
	}
}

func violationMessage(field, rule string) string {
	switch rule {
	case "required":
		return field + " is required"
	case "max":
		return field + " is too long"
	default:
		return field + " is invalid"
	}
}

func accountFieldValue(account *domain.Account, field string) string {
	if account == nil {
		return ""
	}
	switch field {
	case "id":
		return account.ID.String()
	case "email":
		return account.Email
	case "phone":
		return account.Phone
	case "first_name":
		return account.FirstName
	case "last_name":
		return account.LastName
	default:
		return ""
	}
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
