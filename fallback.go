package mira

import "context"

// FallbackKind tags the variant held by a FallbackResult.
type FallbackKind string

// FallbackKind constants.
const (
	FallbackAnswer         FallbackKind = "answer"
	FallbackFound          FallbackKind = "found"
	FallbackNotFound       FallbackKind = "not_found"
	FallbackTransportError FallbackKind = "transport_error"
)

// FallbackResult is the outcome of an external lookup.
// Text is set for FallbackAnswer, Title for FallbackFound and Message for
// FallbackTransportError.
type FallbackResult struct {
	Kind    FallbackKind
	Text    string
	Title   string
	Message string
}

// Answer returns a result carrying a complete answer text.
func Answer(text string) FallbackResult {
	return FallbackResult{Kind: FallbackAnswer, Text: text}
}

// Found returns a result for a source that matched a title but had no summary.
func Found(title string) FallbackResult {
	return FallbackResult{Kind: FallbackFound, Title: title}
}

// NotFound returns a result for a lookup without any match.
func NotFound() FallbackResult {
	return FallbackResult{Kind: FallbackNotFound}
}

// TransportError returns a result for a failed lookup.
func TransportError(message string) FallbackResult {
	return FallbackResult{Kind: FallbackTransportError, Message: message}
}

// FallbackResolver consults an external knowledge source for queries that
// have no adequate local match.
type FallbackResolver interface {
	// Resolve looks up query. Failures are reported as a
	// FallbackTransportError result, never as a panic.
	Resolve(ctx context.Context, query string) FallbackResult
}

// Ensure NoFallback implements FallbackResolver at compile time.
var _ FallbackResolver = NoFallback{}

// NoFallback is a FallbackResolver that never finds anything.
type NoFallback struct{}

// Resolve always returns NotFound.
func (NoFallback) Resolve(context.Context, string) FallbackResult {
	return NotFound()
}
