package services

import (
	"context"
	"io"
)

// StorageService defines the interface for artifact storage operations
type StorageService interface {
	// Upload stores an object and returns its public URL
	Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a key
	GetURL(key string) string

	// Exists checks if an object exists
	Exists(ctx context.Context, key string) (bool, error)
}

// URLResolver is implemented by storages that can tell where an object actually
// lives, such as StorageServiceWithFallback
type URLResolver interface {
	ResolveURL(ctx context.Context, key string) string
}

// ResolveURL returns the public URL of key, asking storage where the object
// lives when it can answer
func ResolveURL(ctx context.Context, storage StorageService, key string) string {
	if resolver, ok := storage.(URLResolver); ok {
		return resolver.ResolveURL(ctx, key)
	}
	return storage.GetURL(key)
}
