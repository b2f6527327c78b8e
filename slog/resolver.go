// Package slog provides logging decorators for mira services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mira"
)

// Ensure LoggingResolver implements mira.Resolver.
var _ mira.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver and logs which tier answered each query.
type LoggingResolver struct {
	next   mira.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next mira.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the resolution.
func (r *LoggingResolver) Resolve(ctx context.Context, query string) (res *mira.Resolution) {
	defer func(begin time.Time) {
		attrs := []any{
			"query", res.Query,
			"tier", string(res.Tier),
			"duration", time.Since(begin),
		}
		switch res.Tier {
		case mira.TierExact, mira.TierFuzzy:
			attrs = append(attrs, "key", res.Key, "similarity", res.Similarity)
		case mira.TierFallback:
			attrs = append(attrs, "fallback", string(res.Fallback))
		}

		if res.Tier == mira.TierError {
			r.logger.Error("resolve", append(attrs, "answer", res.Answer)...)
			return
		}
		r.logger.Info("resolve", attrs...)
	}(time.Now())
	return r.next.Resolve(ctx, query)
}
