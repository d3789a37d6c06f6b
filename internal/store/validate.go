package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/phrazzld/accounts-api/internal/domain"
)

// Fields whose stored value must never appear in a violation.
var secretFields = map[string]string{
	"PasswordHash": "password",
}

var schema = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name, ok := secretFields[fld.Name]; ok {
			return name
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ValidateAccount checks an account against the storage schema.
// It returns nil or a *ValidationError with one FieldViolation per bad field.
func ValidateAccount(account *domain.Account) error {
	if account == nil {
		return NewValidationError("account", map[string]FieldViolation{
			"account": {Field: "account", Rule: "required", Message: "account is required"},
		}, nil)
	}

	err := schema.Struct(account)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate account: %w", err)
	}

	fields := make(map[string]FieldViolation, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		violation := FieldViolation{
			Field:   name,
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: violationMessage(name, fe.Tag(), fe.Param()),
		}
		if _, secret := secretFields[fe.StructField()]; !secret {
			violation.Value = fe.Value()
		}
		fields[name] = violation
	}

	return NewValidationError("account", fields, err)
}

func violationMessage(field, rule, param string) string {
	switch rule {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "email":
		return field + " must be a valid email address"
	case "e164":
		return field + " must be an E.164 phone number"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, param)
	default:
		return fmt.Sprintf("%s failed the %s rule", field, rule)
	}
}
