// Package postgres provides the PostgreSQL implementation of store.AccountStore.
// It handles query execution, mapping between domain.Account and table rows,
// and translation of PostgreSQL error codes into the store package's tagged
// errors. The schema lives in the embedded migrations directory and is applied
// with goose through Migrate.
package postgres
