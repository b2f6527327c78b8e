package mira

import "context"

// Tier identifies which stage of resolution produced an answer.
type Tier string

// Tier constants.
const (
	TierExact    Tier = "exact"
	TierFuzzy    Tier = "fuzzy"
	TierFallback Tier = "fallback"
	TierError    Tier = "error"
)

// Resolution is the answer to a single query.
type Resolution struct {
	Query  string // normalized query
	Answer string
	Tier   Tier

	// Key and Similarity are set for exact and fuzzy hits.
	Key        string
	Similarity float64

	// Fallback is set when Tier is TierFallback.
	Fallback FallbackKind
}

// Resolver answers free-text queries.
type Resolver interface {
	// Resolve always produces an answer; failures are rendered as text.
	Resolve(ctx context.Context, query string) *Resolution
}

// Trainer mutates the knowledge a Resolver answers from.
type Trainer interface {
	// Train stores answer under the normalized question.
	// Returns EINVALID if the question is empty.
	Train(ctx context.Context, question, answer string) error

	// Import merges entries into the store, normalizing their keys.
	Import(ctx context.Context, entries map[string]string) error
}
