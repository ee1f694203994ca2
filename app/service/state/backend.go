package state

import (
	"context"
	"strings"
	"sync"
)

// Backend is a key-value store holding serialized action state with
// last-write-wins semantics. Load returns nil for an absent key.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open selects a backend from a store URI: a plain name opens an
// in-memory store, redis:// opens Redis, any other URI is handed to
// SQLite as a DSN.
func Open(uri string) (Backend, error) {
	switch {
	case !strings.Contains(uri, ":"):
		return newMemoryBackend(), nil
	case strings.HasPrefix(uri, "redis://"), strings.HasPrefix(uri, "rediss://"):
		return newRedisBackend(uri)
	default:
		return newSQLiteBackend(uri)
	}
}

type memoryBackend struct {
	mutex  sync.RWMutex
	values map[string][]byte
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		values: make(map[string][]byte),
	}
}

func (b *memoryBackend) Load(_ context.Context, key string) ([]byte, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return b.values[key], nil
}

func (b *memoryBackend) Save(_ context.Context, key string, value []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.values[key] = value

	return nil
}

func (b *memoryBackend) Close() error {
	return nil
}
