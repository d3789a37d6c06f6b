package domain

import (
	"time"

	"github.com/google/uuid"
)

// BcryptMaxPasswordBytes is the longest plaintext bcrypt will accept.
const BcryptMaxPasswordBytes = 72

// Account is a registered user as persisted by an AccountStore.
//
// The validate tags are the storage schema. Stores check them before writing,
// so a record that reaches the database always satisfies them.
type Account struct {
	ID           uuid.UUID `json:"id"            validate:"required"`
	Email        string    `json:"email"         validate:"required,email,max=254"`
	Phone        string    `json:"phone"         validate:"required,e164"`
	PasswordHash string    `json:"-"             validate:"required"`
	FirstName    string    `json:"first_name"    validate:"required,notblank,max=100"`
	LastName     string    `json:"last_name"     validate:"required,notblank,max=100"`
	CreatedAt    time.Time `json:"created_at"    validate:"required"`
	UpdatedAt    time.Time `json:"updated_at"    validate:"required"`
}

// NewAccount builds an Account with a fresh ID and UTC timestamps.
// The caller supplies an already hashed password; NewAccount never sees plaintext.
func NewAccount(data RegistrationData, passwordHash string) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:           uuid.New(),
		Email:        data.Email,
		Phone:        data.Phone,
		PasswordHash: passwordHash,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// RegistrationData is what a caller submits to create an account.
// Password is plaintext and must be hashed before it is stored.
type RegistrationData struct {
	Email     string
	Phone     string
	Password  string
	FirstName string
	LastName  string
}

// AccountView is the public projection of an Account. It has no field that
// could carry the password hash.
type AccountView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccountView projects a stored account into its public view.
func NewAccountView(a *Account) AccountView {
	return AccountView{
		ID:        a.ID,
		Email:     a.Email,
		Phone:     a.Phone,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// NewAccountViews projects a slice of accounts. The result is never nil.
func NewAccountViews(accounts []Account) []AccountView {
	views := make([]AccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, NewAccountView(&accounts[i]))
	}
	return views
}
