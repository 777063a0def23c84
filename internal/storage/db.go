// Package storage provides the key-value persistence layer shared by the
// ledger and the account host.
package storage

import "errors"

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("storage: key not found")

// DB is the key-value store both persistent and in-memory backends satisfy.
type DB interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach calls fn for every key under prefix with copies of the key
	// and value. A non-nil error from fn stops the walk and is returned.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}
