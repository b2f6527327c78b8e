package mock

import (
	"context"

	"github.com/fwojciec/mira"
)

var _ mira.Store = (*Store)(nil)

// Store is a mock implementation of mira.Store.
type Store struct {
	GetFn   func(ctx context.Context, key string) (string, error)
	PutFn   func(ctx context.Context, key, answer string) error
	MergeFn func(ctx context.Context, entries map[string]string) error
	KeysFn  func(ctx context.Context) ([]string, error)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.GetFn(ctx, key)
}

func (s *Store) Put(ctx context.Context, key, answer string) error {
	return s.PutFn(ctx, key, answer)
}

func (s *Store) Merge(ctx context.Context, entries map[string]string) error {
	return s.MergeFn(ctx, entries)
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	return s.KeysFn(ctx)
}
