package db

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestEntryRepositoryRoundTrip(t *testing.T) {
	database := openTestSQLite(t, filepath.Join(t.TempDir(), "tenanto.db"))
	repo := NewRepositories(database).Entries
	ctx := context.Background()

	if _, found, err := repo.Get(ctx, "units"); err != nil || found {
		t.Fatalf("Get() on empty table expected miss, found=%t err=%v", found, err)
	}

	if err := repo.Set(ctx, "units", `[{"id":"G1"}]`); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := repo.Set(ctx, "currentUser", `{"name":"Alice"}`); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	value, found, err := repo.Get(ctx, "units")
	if err != nil || !found {
		t.Fatalf("Get() expected hit, found=%t err=%v", found, err)
	}
	if value != `[{"id":"G1"}]` {
		t.Fatalf("unexpected value %q", value)
	}

	keys, err := repo.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"currentUser", "units"}) {
		t.Fatalf("unexpected keys %v", keys)
	}

	if err := repo.Delete(ctx, "currentUser"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete() of missing key unexpected error: %v", err)
	}
	if _, found, err := repo.Get(ctx, "currentUser"); err != nil || found {
		t.Fatalf("expected deleted key to miss, found=%t err=%v", found, err)
	}
}

func TestEntryRepositorySetOverwritesAndTouchesUpdatedAt(t *testing.T) {
	database := openTestSQLite(t, filepath.Join(t.TempDir(), "tenanto.db"))
	repo := NewEntryRepository(database)
	ctx := context.Background()

	first := time.Date(2025, time.July, 1, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }
	if err := repo.Set(ctx, "tenants", "[]"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	second := first.Add(time.Hour)
	repo.now = func() time.Time { return second }
	if err := repo.Set(ctx, "tenants", `[{"name":"Neema"}]`); err != nil {
		t.Fatalf("Set() overwrite unexpected error: %v", err)
	}

	var rows []Entry
	if err := database.Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected a single row after overwrite, got %d", len(rows))
	}
	if rows[0].Value != `[{"name":"Neema"}]` {
		t.Fatalf("unexpected value %q", rows[0].Value)
	}
	if !rows[0].UpdatedAt.Equal(second) {
		t.Fatalf("expected updated_at %s, got %s", second, rows[0].UpdatedAt)
	}
}
