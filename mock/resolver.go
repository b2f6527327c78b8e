package mock

import (
	"context"

	"github.com/fwojciec/mira"
)

var _ mira.Resolver = (*Resolver)(nil)

// Resolver is a mock implementation of mira.Resolver.
type Resolver struct {
	ResolveFn func(ctx context.Context, query string) *mira.Resolution
}

func (r *Resolver) Resolve(ctx context.Context, query string) *mira.Resolution {
	return r.ResolveFn(ctx, query)
}

var _ mira.Trainer = (*Trainer)(nil)

// Trainer is a mock implementation of mira.Trainer.
type Trainer struct {
	TrainFn  func(ctx context.Context, question, answer string) error
	ImportFn func(ctx context.Context, entries map[string]string) error
}

func (t *Trainer) Train(ctx context.Context, question, answer string) error {
	return t.TrainFn(ctx, question, answer)
}

func (t *Trainer) Import(ctx context.Context, entries map[string]string) error {
	return t.ImportFn(ctx, entries)
}
