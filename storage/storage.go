// Package storage is the durable key-value bridge behind the cart store.
// Values are opaque JSON blobs; callers own encoding and schema versioning.
package storage

import "errors"

// ErrNotFound is returned by Load when no value exists for the key.
var ErrNotFound = errors.New("storage: key not found")

type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
	Delete(key string) error
}
