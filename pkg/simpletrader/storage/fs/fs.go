package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tendant/simple-trader/pkg/simpletrader"
)

// Backend is a filesystem implementation of the simpletrader.CatalogStore interface
type Backend struct {
	mu      sync.RWMutex
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for price list documents
}

// ErrInvalidKey indicates a key that escapes the base directory
var ErrInvalidKey = errors.New("invalid storage key")

// New creates a new filesystem storage backend
func New(config Config) (simpletrader.CatalogStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{baseDir: config.BaseDir}, nil
}

// Open opens the document stored under key
func (b *Backend) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := b.path(key)
	if err != nil {
		return nil, &simpletrader.StorageError{Backend: "fs", Key: key, Op: "open", Err: err}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &simpletrader.StorageError{Backend: "fs", Key: key, Op: "open", Err: simpletrader.ErrCatalogNotFound}
	}
	if err != nil {
		return nil, &simpletrader.StorageError{Backend: "fs", Key: key, Op: "open", Err: err}
	}
	return f, nil
}

// Put writes reader to a temporary file and renames it over key
func (b *Backend) Put(ctx context.Context, key string, reader io.Reader) error {
	path, err := b.path(key)
	if err != nil {
		return &simpletrader.StorageError{Backend: "fs", Key: key, Op: "put", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &simpletrader.StorageError{Backend: "fs", Key: key, Op: "put", Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".pricelist-*")
	if err != nil {
		return &simpletrader.StorageError{Backend: "fs", Key: key, Op: "put", Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return &simpletrader.StorageError{Backend: "fs", Key: key, Op: "put", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &simpletrader.StorageError{Backend: "fs", Key: key, Op: "put", Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &simpletrader.StorageError{Backend: "fs", Key: key, Op: "put", Err: err}
	}
	return nil
}

// Exists reports whether a regular file is stored under key
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	path, err := b.path(key)
	if err != nil {
		return false, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (b *Backend) path(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(b.baseDir, clean), nil
}
