package mira

import (
	"context"
	"strings"
)

// Store holds trained answers keyed by normalized question.
//
// Keys are expected to be normalized by the caller (see Normalize); a Store
// never normalizes on its own. Every mutation is persisted before the call
// returns.
type Store interface {
	// Get returns the answer stored under key.
	// Returns ENOTFOUND if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Put inserts or overwrites the answer for key and persists the store.
	Put(ctx context.Context, key, answer string) error

	// Merge overwrites every key of entries in the store and persists the
	// store once after the whole merge. Keys not in entries are untouched.
	Merge(ctx context.Context, entries map[string]string) error

	// Keys returns all stored keys in sorted order.
	Keys(ctx context.Context) ([]string, error)
}

// Normalize folds a question or query into the form used as a store key.
// Only case is folded; whitespace and punctuation are kept as typed.
func Normalize(s string) string {
	return strings.ToLower(s)
}
