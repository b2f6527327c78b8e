// Package resolve composes a store, a matcher and a fallback resolver into
// the three-tier resolution pipeline.
package resolve

import (
	"context"
	"slices"
	"strings"

	"github.com/fwojciec/mira"
)

// Compile-time interface verification.
var (
	_ mira.Resolver = (*Pipeline)(nil)
	_ mira.Trainer  = (*Pipeline)(nil)
)

// Pipeline answers queries by exact lookup, then fuzzy lookup, then the
// fallback resolver. Fallback answers are never written to the store.
type Pipeline struct {
	store     mira.Store
	matcher   mira.Matcher
	fallback  mira.FallbackResolver
	threshold float64
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithThreshold sets the minimum similarity for fuzzy matches.
// Defaults to mira.DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(p *Pipeline) {
		p.threshold = threshold
	}
}

// NewPipeline creates a new Pipeline. A nil fallback never finds anything.
func NewPipeline(store mira.Store, matcher mira.Matcher, fallback mira.FallbackResolver, opts ...Option) *Pipeline {
	if fallback == nil {
		fallback = mira.NoFallback{}
	}
	p := &Pipeline{
		store:     store,
		matcher:   matcher,
		fallback:  fallback,
		threshold: mira.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve answers query. It never fails: store and fallback errors are
// rendered into the answer text.
func (p *Pipeline) Resolve(ctx context.Context, query string) *mira.Resolution {
	q := mira.Normalize(query)
	res := &mira.Resolution{Query: q}

	answer, err := p.store.Get(ctx, q)
	if err == nil {
		res.Answer, res.Tier, res.Key, res.Similarity = answer, mira.TierExact, q, 1
		return res
	} else if mira.ErrorCode(err) != mira.ENOTFOUND {
		return storeFailure(res, err)
	}

	keys, err := p.store.Keys(ctx)
	if err != nil {
		return storeFailure(res, err)
	}
	if key, ratio, ok := p.matcher.BestMatch(q, keys, p.threshold); ok {
		answer, err := p.store.Get(ctx, key)
		if err != nil {
			return storeFailure(res, err)
		}
		res.Answer, res.Tier, res.Key, res.Similarity = answer, mira.TierFuzzy, key, ratio
		return res
	}

	fb := p.fallback.Resolve(ctx, q)
	res.Answer = mira.FormatFallback(fb)
	res.Tier = mira.TierFallback
	res.Fallback = fb.Kind
	return res
}

// Answer returns the answer text for query.
func (p *Pipeline) Answer(ctx context.Context, query string) string {
	return p.Resolve(ctx, query).Answer
}

// Train stores answer under the normalized question.
func (p *Pipeline) Train(ctx context.Context, question, answer string) error {
	key := mira.Normalize(question)
	if strings.TrimSpace(key) == "" {
		return mira.Errorf(mira.EINVALID, "question required")
	}
	return p.store.Put(ctx, key, answer)
}

// Import normalizes the keys of entries the same way Train does and merges
// them into the store.
func (p *Pipeline) Import(ctx context.Context, entries map[string]string) error {
	normalized, err := NormalizeEntries(entries)
	if err != nil {
		return err
	}
	return p.store.Merge(ctx, normalized)
}

// NormalizeEntries returns entries with normalized keys. When several keys
// normalize to the same key, the value of the key sorting last wins.
// Returns EINVALID if any key is blank.
func NormalizeEntries(entries map[string]string) (map[string]string, error) {
	raw := make([]string, 0, len(entries))
	for key := range entries {
		raw = append(raw, key)
	}
	slices.Sort(raw)

	normalized := make(map[string]string, len(entries))
	for _, key := range raw {
		n := mira.Normalize(key)
		if strings.TrimSpace(n) == "" {
			return nil, mira.Errorf(mira.EINVALID, "import contains an empty question")
		}
		normalized[n] = entries[key]
	}
	return normalized, nil
}

func storeFailure(res *mira.Resolution, err error) *mira.Resolution {
	res.Answer = mira.FormatStoreError(err)
	res.Tier = mira.TierError
	return res
}
