package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/pagination"
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// parsePageRequest reads page, limit, search, sort and order from the query
// string and validates them.
func parsePageRequest(query url.Values) (pagination.Request, error) {
	page, err := queryInt(query, "page")
	if err != nil {
		return pagination.Request{}, err
	}
	limit, err := queryInt(query, "limit")
	if err != nil {
		return pagination.Request{}, err
	}

	req := pagination.Request{
		Page:   page,
		Limit:  limit,
		Search: query.Get("search"),
		Sort:   query.Get("sort"),
		Order:  query.Get("order"),
	}
	if err := shared.ValidateRequest(req); err != nil {
		return pagination.Request{}, err
	}
	return req, nil
}

func queryInt(query url.Values, name string) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", domain.ErrValidation)
	}
	return n, nil
}
