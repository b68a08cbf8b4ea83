package domain

import "context"

//go:generate mockgen -source=persistence.go -destination=mocks/mocks.go -package=mocks CollectionStore

// CollectionStore is the whole-collection key-value contract every backend
// satisfies. Payloads are the JSON encoding of an entire collection; there is
// no partial or indexed access and no transaction support.
type CollectionStore interface {
	// Get returns the stored payload. The boolean is false when the key has
	// never been written or was deleted.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the payload stored under key.
	Set(ctx context.Context, key string, payload []byte) error
	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
	Close() error
}
