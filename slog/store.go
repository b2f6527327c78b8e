package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mira"
)

// Ensure LoggingStore implements mira.Store.
var _ mira.Store = (*LoggingStore)(nil)

// LoggingStore wraps a Store and logs its mutations. Reads are delegated
// without logging.
type LoggingStore struct {
	next   mira.Store
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next mira.Store, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Get delegates to the wrapped store.
func (s *LoggingStore) Get(ctx context.Context, key string) (string, error) {
	return s.next.Get(ctx, key)
}

// Keys delegates to the wrapped store.
func (s *LoggingStore) Keys(ctx context.Context) ([]string, error) {
	return s.next.Keys(ctx)
}

// Put delegates to the wrapped store and logs the operation.
func (s *LoggingStore) Put(ctx context.Context, key, answer string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("store put",
			"key", key,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Put(ctx, key, answer)
}

// Merge delegates to the wrapped store and logs the operation.
func (s *LoggingStore) Merge(ctx context.Context, entries map[string]string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("store merge",
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Merge(ctx, entries)
}
