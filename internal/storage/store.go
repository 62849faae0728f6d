// Package storage persists the terminal state as named key/value blobs.
package storage

import "errors"

// Collection keys written by the terminal.
const (
	KeyUsers        = "pos_users"
	KeyProducts     = "pos_products"
	KeyTransactions = "pos_transactions"
	KeyCashier      = "pos_cashier"
)

// ErrClosed is returned when the store is used after Close.
var ErrClosed = errors.New("storage: store is closed")

// Store reads and writes serialized collections by logical name.
type Store interface {
	// Load decodes the blob stored under key into v. It reports false when
	// nothing is stored under key.
	Load(key string, v interface{}) (bool, error)
	Save(key string, v interface{}) error
	Delete(key string) error
	Close() error
}
