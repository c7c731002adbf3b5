package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/tendant/simple-trader/pkg/simpletrader"
)

// Backend is an in-memory implementation of the simpletrader.CatalogStore interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory storage backend
func New() simpletrader.CatalogStore {
	return &Backend{
		objects: make(map[string][]byte),
	}
}

// NewWithDocument creates an in-memory backend holding a single document
func NewWithDocument(key string, data []byte) simpletrader.CatalogStore {
	b := &Backend{objects: make(map[string][]byte)}
	b.objects[key] = append([]byte(nil), data...)
	return b
}

// Open returns a reader over a copy of the stored document
func (b *Backend) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, &simpletrader.StorageError{Backend: "memory", Key: key, Op: "open", Err: simpletrader.ErrCatalogNotFound}
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), data...))), nil
}

// Put stores the full contents of reader under key
func (b *Backend) Put(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return &simpletrader.StorageError{Backend: "memory", Key: key, Op: "put", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

// Exists reports whether key is stored
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[key]
	return exists, nil
}
