package kvstore

import (
	"context"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type keyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

func exerciseKeyValueStore(t *testing.T, store keyValueStore) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := store.Get(ctx, "units"); err != nil || found {
		t.Fatalf("Get() on empty store expected miss, found=%t err=%v", found, err)
	}
	if err := store.Set(ctx, "units", "[]"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := store.Set(ctx, "units", `[{"id":"G1"}]`); err != nil {
		t.Fatalf("Set() overwrite unexpected error: %v", err)
	}
	if err := store.Set(ctx, "tenantData-G1", `{"tenant":"Ami"}`); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	value, found, err := store.Get(ctx, "units")
	if err != nil || !found || value != `[{"id":"G1"}]` {
		t.Fatalf("Get() = %q found=%t err=%v", value, found, err)
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"tenantData-G1", "units"}) {
		t.Fatalf("unexpected keys %v", keys)
	}

	if err := store.Delete(ctx, "tenantData-G1"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if err := store.Delete(ctx, "tenantData-G1"); err != nil {
		t.Fatalf("Delete() of missing key unexpected error: %v", err)
	}
	if _, found, err := store.Get(ctx, "tenantData-G1"); err != nil || found {
		t.Fatalf("expected deleted key to miss, found=%t err=%v", found, err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseKeyValueStore(t, NewMemory())
}

func TestRedisStore(t *testing.T) {
	server := miniredis.RunT(t)
	client := NewRedisClient(RedisOptions{Addr: server.Addr()})
	store := NewRedis(client, DefaultRedisPrefix)
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() unexpected error: %v", err)
	}
	exerciseKeyValueStore(t, store)

	raw, err := server.Get(DefaultRedisPrefix + "units")
	if err != nil {
		t.Fatalf("expected prefixed key in redis: %v", err)
	}
	if raw != `[{"id":"G1"}]` {
		t.Fatalf("unexpected raw redis value %q", raw)
	}
}

func TestRedisStoreIgnoresKeysOutsidePrefix(t *testing.T) {
	server := miniredis.RunT(t)
	if err := server.Set("other:units", "[]"); err != nil {
		t.Fatalf("seed foreign key: %v", err)
	}
	store := NewRedis(NewRedisClient(RedisOptions{Addr: server.Addr()}), DefaultRedisPrefix)
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Set(context.Background(), "users", "[]"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	keys, err := store.Keys(context.Background())
	if err != nil {
		t.Fatalf("Keys() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"users"}) {
		t.Fatalf("expected only prefixed keys, got %v", keys)
	}
}
