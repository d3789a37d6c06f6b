// Package mongo provides the MongoDB implementation of store.AccountStore.
//
// Uniqueness of email and phone is enforced by the email_unique and
// phone_unique indexes; search uses a text index over the searchable
// fields. EnsureIndexes must run before the store accepts writes.
package mongo
