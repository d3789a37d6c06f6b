package api

import (
	"github.com/phrazzld/accounts-api/internal/domain"
)

// RegisterRequest defines the payload for the account registration endpoint.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email,max=254"`
	Phone     string `json:"phone"      validate:"required,e164"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,notblank,max=100"`
	LastName  string `json:"last_name"  validate:"required,notblank,max=100"`
}

// RegistrationData converts the request into service input.
func (r RegisterRequest) RegistrationData() domain.RegistrationData {
	return domain.RegistrationData{
		Email:     r.Email,
		Phone:     r.Phone,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}
