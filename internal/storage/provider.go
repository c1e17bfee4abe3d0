// Package storage defines the key-value persistence collaborator for the entry list.
package storage

// Provider is the interface for key-value persistence.
// A missing key is reported with an error wrapping os.ErrNotExist.
type Provider interface {
	// Get returns the value stored under key.
	Get(key string) ([]byte, error)
	// Put replaces the value stored under key.
	Put(key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Close releases underlying resources.
	Close() error
}
