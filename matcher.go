package mira

// DefaultThreshold is the minimum similarity a fuzzy match must reach.
const DefaultThreshold = 0.6

// Matcher finds the stored question most similar to a query.
type Matcher interface {
	// BestMatch returns the candidate with the highest similarity to query
	// and that similarity in [0, 1]. Ties go to the earliest candidate.
	// ok is false when no candidate reaches threshold.
	BestMatch(query string, candidates []string, threshold float64) (key string, ratio float64, ok bool)
}
