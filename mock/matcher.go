package mock

import "github.com/fwojciec/mira"

var _ mira.Matcher = (*Matcher)(nil)

// Matcher is a mock implementation of mira.Matcher.
type Matcher struct {
	BestMatchFn func(query string, candidates []string, threshold float64) (string, float64, bool)
}

func (m *Matcher) BestMatch(query string, candidates []string, threshold float64) (string, float64, bool) {
	return m.BestMatchFn(query, candidates, threshold)
}
