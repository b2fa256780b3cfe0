package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type keyValueStoreStub struct {
	mu       sync.Mutex
	values   map[string]string
	setErr   map[string]error
	setCalls map[string]int
}

func newKeyValueStoreStub() *keyValueStoreStub {
	return &keyValueStoreStub{
		values:   make(map[string]string),
		setErr:   make(map[string]error),
		setCalls: make(map[string]int),
	}
}

func (stub *keyValueStoreStub) Get(_ context.Context, key string) (string, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	value, ok := stub.values[key]
	return value, ok, nil
}

func (stub *keyValueStoreStub) Set(_ context.Context, key string, value string) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.setCalls[key]++
	if err := stub.setErr[key]; err != nil {
		return err
	}
	stub.values[key] = value
	return nil
}

func (stub *keyValueStoreStub) Delete(_ context.Context, key string) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	delete(stub.values, key)
	return nil
}

func (stub *keyValueStoreStub) Keys(_ context.Context) ([]string, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	keys := make([]string, 0, len(stub.values))
	for key := range stub.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (stub *keyValueStoreStub) raw(key string) string {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.values[key]
}

func (stub *keyValueStoreStub) put(key string, value string) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.values[key] = value
}

// newTestStores returns stores over a stub backend with sequential tenant ids
// and the cheapest bcrypt cost.
func newTestStores(t *testing.T) (*Stores, *keyValueStoreStub) {
	t.Helper()

	kv := newKeyValueStoreStub()
	stores := NewStores(kv, nil)
	sequence := 0
	stores.ledger.newID = func() string {
		sequence++
		return fmt.Sprintf("tenant-%d", sequence)
	}
	stores.Sessions.hashCost = bcrypt.MinCost
	return stores, kv
}
