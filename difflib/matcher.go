// Package difflib implements mira.Matcher on top of go-difflib's port of the
// SequenceMatcher algorithm.
package difflib

import (
	"github.com/fwojciec/mira"
	"github.com/pmezard/go-difflib/difflib"
)

// Ensure Matcher implements mira.Matcher at compile time.
var _ mira.Matcher = (*Matcher)(nil)

// Matcher selects the candidate with the highest SequenceMatcher ratio.
type Matcher struct{}

// NewMatcher creates a new Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// BestMatch returns the candidate most similar to query.
//
// Each candidate is compared as sequence a against the query as sequence b,
// rune by rune. A candidate replaces the current best only with a strictly
// higher ratio, so ties resolve to the earliest candidate.
func (m *Matcher) BestMatch(query string, candidates []string, threshold float64) (string, float64, bool) {
	var (
		bestKey   string
		bestRatio float64
		found     bool
	)

	sm := difflib.NewMatcher(nil, split(query))
	for _, candidate := range candidates {
		sm.SetSeq1(split(candidate))

		// The quick ratios are upper bounds of Ratio; skip candidates that
		// cannot clear the threshold or beat the current best.
		if !viable(sm.RealQuickRatio(), threshold, bestRatio, found) {
			continue
		}
		if !viable(sm.QuickRatio(), threshold, bestRatio, found) {
			continue
		}

		ratio := sm.Ratio()
		if !viable(ratio, threshold, bestRatio, found) {
			continue
		}
		bestKey, bestRatio, found = candidate, ratio, true
	}

	return bestKey, bestRatio, found
}

// Ratio returns the similarity of a and b in [0, 1], computed as 2*M/T where
// M is the number of matching runes and T the total number of runes.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(split(a), split(b)).Ratio()
}

func viable(ratio, threshold, best float64, found bool) bool {
	if ratio < threshold {
		return false
	}
	return !found || ratio > best
}

// split turns s into a sequence of single-rune strings.
func split(s string) []string {
	seq := make([]string, 0, len(s))
	for _, r := range s {
		seq = append(seq, string(r))
	}
	return seq
}
