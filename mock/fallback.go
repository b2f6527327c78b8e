package mock

import (
	"context"

	"github.com/fwojciec/mira"
)

var _ mira.FallbackResolver = (*FallbackResolver)(nil)

// FallbackResolver is a mock implementation of mira.FallbackResolver.
type FallbackResolver struct {
	ResolveFn func(ctx context.Context, query string) mira.FallbackResult
}

func (f *FallbackResolver) Resolve(ctx context.Context, query string) mira.FallbackResult {
	return f.ResolveFn(ctx, query)
}
