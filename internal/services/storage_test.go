package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) (*LocalStorageService, string) {
	t.Helper()
	dir := t.TempDir()
	svc, err := NewLocalStorageService(dir, "http://localhost:8080/media/")
	require.NoError(t, err)
	return svc, dir
}

func TestLocalStorageService_UploadExistsDelete(t *testing.T) {
	svc, dir := newTestLocalStorage(t)
	ctx := context.Background()
	content := "artifact bytes"

	url, err := svc.Upload(ctx, "qrcodes/qr_code_1.png", strings.NewReader(content), "image/png", int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/qrcodes/qr_code_1.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "qrcodes", "qr_code_1.png"))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	exists, err := svc.Exists(ctx, "/qrcodes/qr_code_1.png")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, svc.Delete(ctx, "qrcodes/qr_code_1.png"))
	exists, err = svc.Exists(ctx, "qrcodes/qr_code_1.png")
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting twice is fine
	assert.NoError(t, svc.Delete(ctx, "qrcodes/qr_code_1.png"))
}

func TestLocalStorageService_SizeMismatchLeavesNothing(t *testing.T) {
	svc, dir := newTestLocalStorage(t)

	_, err := svc.Upload(context.Background(), "qrcodes/x.png", strings.NewReader("abc"), "image/png", 10)
	assert.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "qrcodes"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorageService_KeysStayInsideBase(t *testing.T) {
	svc, dir := newTestLocalStorage(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "../../escape.txt", strings.NewReader("x"), "text/plain", 1)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)

	_, err = svc.Upload(ctx, "/", strings.NewReader("x"), "text/plain", 1)
	assert.Error(t, err)
}

type brokenStorage struct {
	StorageService
}

func (brokenStorage) Upload(context.Context, string, io.Reader, string, int64) (string, error) {
	return "", errors.New("primary down")
}

func (brokenStorage) Exists(context.Context, string) (bool, error) {
	return false, errors.New("primary down")
}

func (brokenStorage) Delete(context.Context, string) error {
	return errors.New("primary down")
}

func TestStorageServiceWithFallback(t *testing.T) {
	local, _ := newTestLocalStorage(t)
	primary, _ := newTestLocalStorage(t)
	svc := NewStorageServiceWithFallback(brokenStorage{primary}, local)
	ctx := context.Background()

	url, err := svc.Upload(ctx, "qrcodes/a.png", strings.NewReader("abc"), "image/png", 3)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/qrcodes/a.png", url)

	exists, err := svc.Exists(ctx, "qrcodes/a.png")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, url, svc.ResolveURL(ctx, "qrcodes/a.png"))

	// one storage succeeding is enough
	require.NoError(t, svc.Delete(ctx, "qrcodes/a.png"))
	exists, err = local.Exists(ctx, "qrcodes/a.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func newTestCDNStorage(t *testing.T) StorageService {
	t.Helper()
	cdn, err := NewLocalStorageService(t.TempDir(), "https://cdn.example.com/")
	require.NoError(t, err)
	return cdn
}

func TestResolveURL_PointsAtTheStorageHoldingTheObject(t *testing.T) {
	local, _ := newTestLocalStorage(t)
	cdn := newTestCDNStorage(t)
	ctx := context.Background()

	fallback := NewStorageServiceWithFallback(brokenStorage{cdn}, local)
	_, err := fallback.Upload(ctx, "qrcodes/a.png", strings.NewReader("abc"), "image/png", 3)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/qrcodes/a.png", fallback.GetURL("qrcodes/a.png"))
	assert.Equal(t, "http://localhost:8080/media/qrcodes/a.png", ResolveURL(ctx, fallback, "qrcodes/a.png"))

	// healthy primary holding the object wins
	healthy := NewStorageServiceWithFallback(cdn, local)
	_, err = healthy.Upload(ctx, "qrcodes/b.png", strings.NewReader("abc"), "image/png", 3)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/qrcodes/b.png", ResolveURL(ctx, healthy, "qrcodes/b.png"))

	// plain storages answer with GetURL
	assert.Equal(t, "http://localhost:8080/media/qrcodes/c.png", ResolveURL(ctx, local, "qrcodes/c.png"))
}

func TestStorageServiceWithFallback_NonSeekableReader(t *testing.T) {
	local, _ := newTestLocalStorage(t)
	svc := NewStorageServiceWithFallback(brokenStorage{local}, local)

	_, err := svc.Upload(context.Background(), "qrcodes/a.png", io.LimitReader(strings.NewReader("abc"), 3), "image/png", 3)
	assert.ErrorContains(t, err, "cannot be rewound")
}
