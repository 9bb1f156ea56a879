// Package kv is the local key/value storage behind the progress adapter.
// Values are opaque bytes; a missing key is not an error.
package kv

import (
	"context"
	"errors"
	"sort"
)

// ErrEmptyKey is returned for operations on an empty key.
var ErrEmptyKey = errors.New("kv: empty key")

// Storage is a string-keyed blob store.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Batcher is implemented by storages that can write several keys atomically.
type Batcher interface {
	SetMany(ctx context.Context, entries map[string][]byte) error
}

// SetMany writes entries atomically when s supports it and one key at a
// time, in key order, otherwise.
func SetMany(ctx context.Context, s Storage, entries map[string][]byte) error {
	if b, ok := s.(Batcher); ok {
		return b.SetMany(ctx, entries)
	}
	for _, k := range sortedKeys(entries) {
		if err := s.Set(ctx, k, entries[k]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(entries map[string][]byte) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkKeys(entries map[string][]byte) error {
	for k := range entries {
		if k == "" {
			return ErrEmptyKey
		}
	}
	return nil
}
