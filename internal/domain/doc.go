// Package domain contains the account entity, its public projection and the
// registration input. It has no knowledge of storage or transport.
package domain
