package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mira"
)

// Ensure LoggingFallbackResolver implements mira.FallbackResolver.
var _ mira.FallbackResolver = (*LoggingFallbackResolver)(nil)

// LoggingFallbackResolver wraps a FallbackResolver with logging.
type LoggingFallbackResolver struct {
	next   mira.FallbackResolver
	name   string
	logger *slog.Logger
}

// NewLoggingFallbackResolver creates a new LoggingFallbackResolver.
// name identifies the knowledge source in log lines.
func NewLoggingFallbackResolver(next mira.FallbackResolver, name string, logger *slog.Logger) *LoggingFallbackResolver {
	return &LoggingFallbackResolver{next: next, name: name, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the result kind.
func (r *LoggingFallbackResolver) Resolve(ctx context.Context, query string) (result mira.FallbackResult) {
	defer func(begin time.Time) {
		if result.Kind == mira.FallbackTransportError {
			r.logger.Warn("fallback",
				"source", r.name,
				"query", query,
				"duration", time.Since(begin),
				"err", result.Message,
			)
			return
		}
		r.logger.Info("fallback",
			"source", r.name,
			"query", query,
			"result", string(result.Kind),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return r.next.Resolve(ctx, query)
}
