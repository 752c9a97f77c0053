// Package store provides template persistence on top of a flat key-value
// collaborator. The KV interface is the only thing the rest of the system
// depends on; a file-backed implementation is used in production and a
// map-backed one in tests.
package store

import "errors"

// ErrKeyNotFound is returned by Get for keys that have never been set or
// have been removed.
var ErrKeyNotFound = errors.New("key not found")

// KV is the flat namespaced key-value contract the template store requires
// from its persistence collaborator.
type KV interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Set writes value under key, overwriting any previous value.
	Set(key string, value []byte) error

	// Remove deletes key. Removing a missing key is a no-op.
	Remove(key string) error

	// ListKeys returns every stored key that starts with prefix, in
	// unspecified order.
	ListKeys(prefix string) ([]string, error)
}
