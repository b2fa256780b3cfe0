package kvstore

import (
	"context"
	"sort"
	"sync"
)

// Memory keeps entries in process memory. It is the backend for tests and
// for STORAGE_DRIVER=memory.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (store *Memory) Get(_ context.Context, key string) (string, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	value, ok := store.entries[key]
	return value, ok, nil
}

func (store *Memory) Set(_ context.Context, key string, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.entries[key] = value
	return nil
}

func (store *Memory) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.entries, key)
	return nil
}

func (store *Memory) Keys(_ context.Context) ([]string, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	keys := make([]string, 0, len(store.entries))
	for key := range store.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
