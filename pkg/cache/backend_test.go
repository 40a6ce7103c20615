package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func TestNop(t *testing.T) {
	ctx := context.Background()
	backend := NewNop()

	if err := backend.Put(ctx, "key", []byte("data")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := backend.Get(ctx, "key"); err != ErrCacheMiss {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemory()

	if _, err := backend.Get(ctx, "key"); err != ErrCacheMiss {
		t.Fatalf("Get() on empty cache error = %v, want ErrCacheMiss", err)
	}

	if err := backend.Put(ctx, "key", []byte("data")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := backend.Get(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "data" {
		t.Errorf("Get() = %s, want data", data)
	}

	// Overwrite
	if err := backend.Put(ctx, "key", []byte("updated")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err = backend.Get(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "updated" {
		t.Errorf("Get() after overwrite = %s, want updated", data)
	}

	if backend.Len() != 1 {
		t.Errorf("Len() = %d, want 1", backend.Len())
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	backend := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%10)
			_ = backend.Put(ctx, key, []byte(fmt.Sprintf("data-%d", i)))
			_, _ = backend.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	if backend.Len() != 10 {
		t.Errorf("Len() = %d, want 10", backend.Len())
	}
}

func TestDisk_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mure-cache.sqlite")

	backend, err := NewDisk(path)
	if err != nil {
		t.Fatalf("NewDisk() error: %v", err)
	}
	defer backend.Close()

	if _, err := backend.Get(ctx, "key"); err != ErrCacheMiss {
		t.Fatalf("Get() on empty cache error = %v, want ErrCacheMiss", err)
	}

	if err := backend.Put(ctx, "key", []byte("data")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := backend.Get(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "data" {
		t.Errorf("Get() = %s, want data", data)
	}

	// Overwrite must replace the prior entry.
	if err := backend.Put(ctx, "key", []byte("updated")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err = backend.Get(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "updated" {
		t.Errorf("Get() after overwrite = %s, want updated", data)
	}
}

// TestDisk_SurvivesReopen verifies entries persist across process restarts.
func TestDisk_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mure-cache.sqlite")

	backend, err := NewDisk(path)
	if err != nil {
		t.Fatalf("NewDisk() error: %v", err)
	}
	if err := backend.Put(ctx, "key", []byte("data")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := NewDisk(path)
	if err != nil {
		t.Fatalf("NewDisk() after reopen error: %v", err)
	}
	defer reopened.Close()

	data, err := reopened.Get(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "data" {
		t.Errorf("Get() after reopen = %s, want data", data)
	}
}

func TestDisk_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mure-cache.sqlite")

	backend, err := NewDisk(path)
	if err != nil {
		t.Fatalf("NewDisk() error: %v", err)
	}
	defer backend.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			if err := backend.Put(ctx, key, []byte(fmt.Sprintf("data-%d", i))); err != nil {
				t.Errorf("Put(%s) error: %v", key, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("key-%d", i)
		data, err := backend.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get(%s) error: %v", key, err)
		}
		if string(data) != fmt.Sprintf("data-%d", i) {
			t.Errorf("Get(%s) = %s, want data-%d", key, data, i)
		}
	}
}

func TestNewDisk_EmptyPath(t *testing.T) {
	if _, err := NewDisk(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
