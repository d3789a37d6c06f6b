package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/pagination"
)

// MockAccountService implements service.AccountService for testing
type MockAccountService struct {
	RegisterFn                 func(ctx context.Context, data domain.RegistrationData) (*domain.AccountView, error)
	FindByEmailOrPhoneNumberFn func(ctx context.Context, credential string) (*domain.Account, error)
	GetProfileFn               func(ctx context.Context, accountID uuid.UUID) (*domain.AccountView, error)
	ListAccountsFn             func(
		ctx context.Context,
		req pagination.Request,
		sink pagination.Sink,
	) (*pagination.Page[domain.AccountView], error)

	// Default response values used when the matching Fn is nil
	View *domain.AccountView
	Page *pagination.Page[domain.AccountView]
	Err  error
}

// Register implements the service.AccountService interface
func (m *MockAccountService) Register(ctx context.Context, data domain.RegistrationData) (*domain.AccountView, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, data)
	}
	return m.View, m.Err
}

// FindByEmailOrPhoneNumber implements the service.AccountService interface
func (m *MockAccountService) FindByEmailOrPhoneNumber(ctx context.Context, credential string) (*domain.Account, error) {
	if m.FindByEmailOrPhoneNumberFn != nil {
		return m.FindByEmailOrPhoneNumberFn(ctx, credential)
	}
	return nil, m.Err
}

// GetProfile implements the service.AccountService interface
func (m *MockAccountService) GetProfile(ctx context.Context, accountID uuid.UUID) (*domain.AccountView, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, accountID)
	}
	return m.View, m.Err
}

// ListAccounts implements the service.AccountService interface
func (m *MockAccountService) ListAccounts(
	ctx context.Context,
	req pagination.Request,
	sink pagination.Sink,
) (*pagination.Page[domain.AccountView], error) {
	if m.ListAccountsFn != nil {
		return m.ListAccountsFn(ctx, req, sink)
	}
	return m.Page, m.Err
}
