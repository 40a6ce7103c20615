package cache

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Backend stores serialized responses by fingerprint. Implementations must
// be safe for concurrent use; a Put must be atomic from the perspective of
// concurrent Gets (no reader ever observes a half-written entry).
type Backend interface {
	// Get returns the stored bytes for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, overwriting any prior entry.
	Put(ctx context.Context, key string, data []byte) error

	// Close releases backend resources.
	Close() error
}

// Nop is a backend that stores nothing and always misses.
type Nop struct{}

// NewNop creates a no-op backend.
func NewNop() *Nop {
	return &Nop{}
}

// Get always returns ErrCacheMiss.
func (*Nop) Get(context.Context, string) ([]byte, error) {
	return nil, ErrCacheMiss
}

// Put discards the entry.
func (*Nop) Put(context.Context, string, []byte) error {
	return nil
}

// Close is a no-op.
func (*Nop) Close() error {
	return nil
}

// Memory is an in-process backend. Entries live for the lifetime of the
// process.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory creates an in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string][]byte),
	}
}

// Get returns the stored bytes for key, or ErrCacheMiss.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	data, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}

// Put stores data under key.
func (m *Memory) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	m.entries[key] = data
	m.mu.Unlock()
	return nil
}

// Close drops all entries.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.entries = make(map[string][]byte)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
