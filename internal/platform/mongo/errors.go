package mongo

import (
	"errors"
	"regexp"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB server error codes
const (
	duplicateKeyCode       = 11000
	documentValidationCode = 121
)

// Index names created by EnsureIndexes.
const (
	emailIndex = "email_unique"
	phoneIndex = "phone_unique"
	textIndex  = "account_text"
)

var indexFields = map[string]string{
	emailIndex: "email",
	phoneIndex: "phone",
	"_id_":     "id",
}

var dupIndexPattern = regexp.MustCompile(`index: (\S+) dup key`)

// mapWriteError classifies a failed insert into the store's tagged errors.
// Errors that are not write errors are returned unchanged.
func mapWriteError(err error, account *domain.Account) error {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return err
	}

	conflicts := map[string]string{}
	violations := map[string]store.FieldViolation{}
	for _, writeErr := range we.WriteErrors {
		switch writeErr.Code {
		case duplicateKeyCode:
			field := duplicateField(writeErr.Message)
			conflicts[field] = fieldValue(account, field)
		case documentValidationCode:
			violations["account"] = store.FieldViolation{
				Field:   "account",
				Rule:    "schema",
				Message: "account failed document validation",
			}
		}
	}

	if len(conflicts) > 0 {
		return store.NewConflictError(conflicts, err)
	}
	if len(violations) > 0 {
		return store.NewValidationError("account", violations, err)
	}
	return err
}

// duplicateField extracts the field guarded by the index named in a
// duplicate key message.
func duplicateField(message string) string {
	m := dupIndexPattern.FindStringSubmatch(message)
	if m == nil {
		return "account"
	}
	if field, ok := indexFields[m[1]]; ok {
		return field
	}
	return m[1]
}

func fieldValue(account *domain.Account, field string) string {
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
	default:
		return ""
	}
}
