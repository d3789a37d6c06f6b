// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the account
// store (defined in internal/store) to fulfill application features.
//
// AccountService is the only service. It hashes passwords on registration,
// classifies storage failures into DuplicateAccountError and InvalidInputError,
// redacts password hashes by projecting records into domain.AccountView, and
// hands listing to a pagination.Paginator.
//
// The service layer depends on domain entities and repository interfaces (from store),
// but never on specific infrastructure implementations.
package service
