// Package db defines the storage interface the wallet keeps encrypted
// keystore containers in.  The containers are opaque JSON documents; the
// store never sees plaintext key material.
package db

import "errors"

var (
	ErrKeystoreNotFound = errors.New("keystore not found")
	ErrDBClosed         = errors.New("db is closed")
)

// DB persists keystore containers by id.
type DB interface {
	// PutKeystore stores the container document under id, overwriting
	// any previous document.
	PutKeystore(id string, doc []byte) error

	// GetKeystore returns the container document stored under id.
	GetKeystore(id string) ([]byte, error)

	// DeleteKeystore removes the container stored under id.
	DeleteKeystore(id string) error

	// ListKeystoreIDs returns the ids of all stored containers.
	ListKeystoreIDs() ([]string, error)

	// Close releases the underlying resources.
	Close() error
}
