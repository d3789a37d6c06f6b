package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/redact"
	"github.com/phrazzld/accounts-api/internal/service"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var (
		dup     *service.DuplicateAccountError
		invalid *service.InvalidInputError
		listing *service.ListingFailedError
	)

	switch {
	// Not found errors
	case errors.Is(err, service.ErrAccountNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.As(err, &dup):
		return http.StatusConflict

	// Listing errors
	case errors.As(err, &listing):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.As(err, &invalid),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, shared.ErrInvalidBody),
		shared.ValidationFields(err) != nil:
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		dup     *service.DuplicateAccountError
		invalid *service.InvalidInputError
		listing *service.ListingFailedError
		valErr  *domain.ValidationError
	)

	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		return "User not found"

	case errors.As(err, &dup):
		return "Account already exists"

	case errors.As(err, &invalid):
		return invalid.Message

	case errors.As(err, &listing):
		return redact.String(listing.Message)

	case errors.As(err, &valErr):
		return valErr.Error()

	case shared.ValidationFields(err) != nil:
		return "Validation error"

	case MapErrorToStatusCode(err) == http.StatusBadRequest:
		return "Invalid request format"

	default:
		return "An unexpected error occurred"
	}
}

// errorFields returns the per-field details a client receives for err, or nil.
func errorFields(err error) any {
	var (
		dup     *service.DuplicateAccountError
		invalid *service.InvalidInputError
	)

	switch {
	case errors.As(err, &dup):
		return dup.Fields
	case errors.As(err, &invalid):
		return invalid.Fields
	}

	if fields := shared.ValidationFields(err); fields != nil {
		return fields
	}
	return nil
}

// HandleAPIError writes the error response for err. When message is empty
// the safe message for err is used.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	opts := []shared.ResponseOption{}
	if fields := errorFields(err); fields != nil {
		opts = append(opts, shared.WithErrorFields(fields))
	}
	if status == http.StatusUnprocessableEntity {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
