package ports

import "context"

// BlobStore persists opaque values by key.
type BlobStore interface {
	// Get returns domain.ErrNotFound when key has never been written or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting an absent key succeeds.
	Delete(ctx context.Context, key string) error
}
