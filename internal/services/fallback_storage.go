package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"offer-ticketing-platform/internal/logging"
)

// LocalStorageService stores artifacts under a directory served at baseURL
type LocalStorageService struct {
	basePath string
	baseURL  string
}

// NewLocalStorageService creates a local storage service rooted at basePath
func NewLocalStorageService(basePath, baseURL string) (*LocalStorageService, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorageService{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// path resolves a key inside basePath, rejecting keys that escape it
func (l *LocalStorageService) path(key string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimPrefix(key, "/"))
	if clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.basePath, filepath.FromSlash(clean)), nil
}

// Upload writes an object to disk. The write goes through a temp file so a
// partially written artifact is never visible under its final name.
func (l *LocalStorageService) Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}
	if size >= 0 && written != size {
		return "", fmt.Errorf("size mismatch: expected %d bytes, wrote %d bytes", size, written)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", fmt.Errorf("failed to move file into place %s: %w", fullPath, err)
	}

	logging.FromContext(ctx).WithField("key", key).Debug("Saved object to local storage")
	return l.GetURL(key), nil
}

// Delete removes an object from disk
func (l *LocalStorageService) Delete(ctx context.Context, key string) error {
	fullPath, err := l.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}
	return nil
}

// GetURL returns the public URL for an object
func (l *LocalStorageService) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", l.baseURL, strings.TrimPrefix(key, "/"))
}

// Exists checks if an object exists on disk
func (l *LocalStorageService) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if file exists: %w", err)
	}
	return true, nil
}

// StorageServiceWithFallback wraps a primary storage service with a fallback
type StorageServiceWithFallback struct {
	primary  StorageService
	fallback StorageService
}

// NewStorageServiceWithFallback creates a storage service with fallback capability
func NewStorageServiceWithFallback(primary, fallback StorageService) *StorageServiceWithFallback {
	return &StorageServiceWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// Upload tries primary storage first and falls back when the reader can be rewound
func (s *StorageServiceWithFallback) Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error) {
	url, err := s.primary.Upload(ctx, key, reader, contentType, size)
	if err == nil {
		return url, nil
	}

	seeker, ok := reader.(io.Seeker)
	if !ok {
		return "", fmt.Errorf("primary storage failed and reader cannot be rewound: %w", err)
	}
	if _, seekErr := seeker.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("primary storage failed and reader cannot be rewound: %w", err)
	}

	logging.FromContext(ctx).WithError(err).WithField("key", key).Warn("Primary storage failed, using fallback")
	return s.fallback.Upload(ctx, key, reader, contentType, size)
}

// Delete removes the object from both storages
func (s *StorageServiceWithFallback) Delete(ctx context.Context, key string) error {
	primaryErr := s.primary.Delete(ctx, key)
	fallbackErr := s.fallback.Delete(ctx, key)

	if primaryErr != nil && fallbackErr != nil {
		return fmt.Errorf("both storages failed: %w", errors.Join(primaryErr, fallbackErr))
	}
	return nil
}

// GetURL returns the primary storage URL
func (s *StorageServiceWithFallback) GetURL(key string) string {
	return s.primary.GetURL(key)
}

// ResolveURL returns the fallback URL when only the fallback holds the object
func (s *StorageServiceWithFallback) ResolveURL(ctx context.Context, key string) string {
	if ok, err := s.primary.Exists(ctx, key); err == nil && ok {
		return s.primary.GetURL(key)
	}
	if ok, err := s.fallback.Exists(ctx, key); err == nil && ok {
		return s.fallback.GetURL(key)
	}
	return s.primary.GetURL(key)
}

// Exists checks both storages
func (s *StorageServiceWithFallback) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := s.primary.Exists(ctx, key)
	if err == nil && exists {
		return true, nil
	}
	return s.fallback.Exists(ctx, key)
}
