package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/terraincognita07/tenanto/internal/services"
)

// ImportDump copies a browser storage dump (a JSON object of key -> string)
// into kv. Values that are not JSON strings are stored as their raw JSON
// text. With replace set, keys missing from the dump are deleted.
func ImportDump(ctx context.Context, kv services.KeyValueStore, reader io.Reader, replace bool) (int, error) {
	raw := map[string]json.RawMessage{}
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&raw); err != nil {
		return 0, fmt.Errorf("decode storage dump: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if replace {
		existing, err := kv.Keys(ctx)
		if err != nil {
			return 0, fmt.Errorf("list stored keys: %w", err)
		}
		for _, key := range existing {
			if _, ok := raw[key]; ok {
				continue
			}
			if err := kv.Delete(ctx, key); err != nil {
				return 0, fmt.Errorf("delete %s: %w", key, err)
			}
		}
	}

	for _, key := range keys {
		if err := kv.Set(ctx, key, dumpValue(raw[key])); err != nil {
			return 0, fmt.Errorf("store %s: %w", key, err)
		}
	}
	return len(keys), nil
}

// ExportDump writes every stored key as one JSON object in the same format
// ImportDump reads.
func ExportDump(ctx context.Context, kv services.KeyValueStore, writer io.Writer) (int, error) {
	keys, err := kv.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stored keys: %w", err)
	}

	dump := make(map[string]string, len(keys))
	for _, key := range keys {
		value, found, err := kv.Get(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("load %s: %w", key, err)
		}
		if found {
			dump[key] = value
		}
	}

	serialized, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode storage dump: %w", err)
	}
	if _, err := writer.Write(append(serialized, '\n')); err != nil {
		return 0, fmt.Errorf("write storage dump: %w", err)
	}
	return len(dump), nil
}

func dumpValue(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(bytes.TrimSpace(raw))
}
