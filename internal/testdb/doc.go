//go:build integration

// Package testdb provides utilities for database integration tests.
//
// Tests run against real PostgreSQL and MongoDB servers named by environment
// variables. Each PostgreSQL test runs inside a transaction that is rolled
// back when the test completes, so tests do not see each other's rows.
//
// # Basic Usage
//
//	func TestMyFeature(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        accounts := postgres.NewPostgresAccountStore(tx, nil)
//	        // ...
//	    })
//	}
//
// # Environment Variables
//
// - DATABASE_URL: PostgreSQL connection string
// - ACCOUNTS_TEST_DB_URL: alternative PostgreSQL connection string
// - MONGO_URL: MongoDB connection string
//
// Tests are skipped when the variable they need is unset.
package testdb
