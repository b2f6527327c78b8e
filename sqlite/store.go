package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"time"

	"github.com/fwojciec/mira"
)

// Compile-time interface verification.
var _ mira.Store = (*Store)(nil)

const upsertEntry = `
	INSERT INTO entries (key, answer, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET answer = excluded.answer, updated_at = excluded.updated_at
`

// Store implements mira.Store using SQLite. Every mutation is committed
// before it returns.
type Store struct {
	db *DB
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Get returns the answer stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var answer string
	err := s.db.QueryRowContext(ctx, "SELECT answer FROM entries WHERE key = ?", key).Scan(&answer)
	if errors.Is(err, sql.ErrNoRows) {
		return "", mira.Errorf(mira.ENOTFOUND, "question %q not found", key)
	}
	if err != nil {
		return "", err
	}
	return answer, nil
}

// Put inserts or overwrites the answer for key.
func (s *Store) Put(ctx context.Context, key, answer string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, upsertEntry, key, answer, now); err != nil {
		return mira.Errorf(mira.EINTERNAL, "failed to save answer: %v", err)
	}
	return nil
}

// Merge upserts all entries in a single transaction.
func (s *Store) Merge(ctx context.Context, entries map[string]string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return mira.Errorf(mira.EINTERNAL, "failed to begin merge: %v", err)
	}
	defer tx.Rollback()

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	now := time.Now().UTC().Format(time.RFC3339)
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, upsertEntry, key, entries[key], now); err != nil {
			return mira.Errorf(mira.EINTERNAL, "failed to merge %q: %v", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return mira.Errorf(mira.EINTERNAL, "failed to commit merge: %v", err)
	}
	return nil
}

// Keys returns all keys in sorted order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM entries ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n)
	return n, err
}
