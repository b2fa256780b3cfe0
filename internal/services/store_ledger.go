package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KeyValueStore is the persistence boundary: string keys holding JSON text,
// the same shape the browser storage of the original app used.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// ledger is shared by the unit, tenant and session stores. Every
// read-modify-write cycle runs inside mutate so two views can never write
// back stale copies of the same collection.
type ledger struct {
	kv     KeyValueStore
	logger *zap.Logger
	newID  func() string

	mutations sync.Mutex

	issuesMu sync.Mutex
	issues   []StorageParseError
}

func newLedger(kv KeyValueStore, logger *zap.Logger) *ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ledger{
		kv:     kv,
		logger: logger,
		newID:  uuid.NewString,
	}
}

func (l *ledger) mutate(fn func() error) error {
	l.mutations.Lock()
	defer l.mutations.Unlock()
	return fn()
}

// loadCollection decodes the JSON array stored under key. A missing key is an
// empty collection; an undecodable one is quarantined and also read as empty.
func loadCollection[T any](ctx context.Context, l *ledger, key string) ([]T, error) {
	raw, found, err := l.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	items := make([]T, 0)
	if !found || strings.TrimSpace(raw) == "" {
		return items, nil
	}

	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		l.quarantine(ctx, key, raw, err)
		return make([]T, 0), nil
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

// loadRecord decodes a single JSON object. found is false when the key is
// absent or its payload had to be quarantined.
func loadRecord[T any](ctx context.Context, l *ledger, key string) (T, bool, error) {
	var record T
	raw, found, err := l.kv.Get(ctx, key)
	if err != nil {
		return record, false, fmt.Errorf("load %s: %w", key, err)
	}
	trimmed := strings.TrimSpace(raw)
	if !found || trimmed == "" || trimmed == "null" {
		return record, false, nil
	}

	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		l.quarantine(ctx, key, raw, err)
		var empty T
		return empty, false, nil
	}
	return record, true, nil
}

func (l *ledger) save(ctx context.Context, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := l.kv.Set(ctx, key, string(encoded)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (l *ledger) remove(ctx context.Context, key string) error {
	if err := l.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (l *ledger) quarantine(ctx context.Context, key string, raw string, cause error) {
	parseErr := StorageParseError{
		Key:           key,
		QuarantineKey: l.storeQuarantined(ctx, key, raw),
		Raw:           raw,
		Err:           cause,
	}

	l.issuesMu.Lock()
	defer l.issuesMu.Unlock()
	for _, issue := range l.issues {
		if issue.Key == key && issue.Raw == raw {
			return
		}
	}
	l.issues = append(l.issues, parseErr)
	l.logger.Warn("stored collection is corrupt, reading it as empty",
		zap.String("key", key),
		zap.String("quarantine_key", parseErr.QuarantineKey),
		zap.Int("raw_bytes", len(raw)),
		zap.Error(cause),
	)
}

// storeQuarantined keeps raw in the first quarantine slot of key that is free
// or already holds the same payload, so earlier payloads are never replaced.
func (l *ledger) storeQuarantined(ctx context.Context, key string, raw string) string {
	for slot := 1; ; slot++ {
		slotKey := quarantineSlotKey(key, slot)
		existing, found, err := l.kv.Get(ctx, slotKey)
		if err != nil {
			l.logger.Error("read quarantine slot failed", zap.String("key", slotKey), zap.Error(err))
			return slotKey
		}
		if found && existing == raw {
			return slotKey
		}
		if found {
			continue
		}
		if err := l.kv.Set(ctx, slotKey, raw); err != nil {
			l.logger.Error("quarantine corrupt payload failed", zap.String("key", slotKey), zap.Error(err))
		}
		return slotKey
	}
}

func (l *ledger) parseIssues() []StorageParseError {
	l.issuesMu.Lock()
	defer l.issuesMu.Unlock()
	result := make([]StorageParseError, len(l.issues))
	copy(result, l.issues)
	return result
}
