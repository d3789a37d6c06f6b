// Package mocks provides hand-written test doubles for the store, auth and
// service interfaces.
//
// Each mock exposes one function field per interface method. A nil field
// falls back to a simple default so tests only override what they assert on:
//
//	accounts := mocks.NewMockAccountStore()
//	accounts.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
//	    return nil, store.ErrAccountNotFound
//	}
package mocks
