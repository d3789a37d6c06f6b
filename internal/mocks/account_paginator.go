package mocks

import (
	"context"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/pagination"
	"github.com/phrazzld/accounts-api/internal/store"
)

// MockAccountPaginator implements service.AccountPaginator for testing
type MockAccountPaginator struct {
	PaginateFn func(
		ctx context.Context,
		filter store.AccountFilter,
		req pagination.Request,
		sink pagination.Sink,
	) (*pagination.Page[domain.Account], error)

	// LastFilter and LastRequest record the arguments of the most recent call
	LastFilter  store.AccountFilter
	LastRequest pagination.Request
	Calls       int
}

// Paginate implements the service.AccountPaginator interface
func (m *MockAccountPaginator) Paginate(
	ctx context.Context,
	filter store.AccountFilter,
	req pagination.Request,
	sink pagination.Sink,
) (*pagination.Page[domain.Account], error) {
	m.Calls++
	m.LastFilter = filter
	m.LastRequest = req

	if m.PaginateFn != nil {
		return m.PaginateFn(ctx, filter, req, sink)
	}
	return &pagination.Page[domain.Account]{Items: []domain.Account{}, Page: 1, Limit: req.Limit}, nil
}
