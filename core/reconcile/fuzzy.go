package reconcile

import "collection-merge/core/fuzzy"

type fuzzyCandidate struct {
	key       string
	canonical string
}

// FuzzyMatcher scores a query name against every key of a name index. It is
// built once per index and safe for concurrent use.
type FuzzyMatcher struct {
	candidates []fuzzyCandidate
	threshold  float64
}

// NewFuzzyMatcher prepares the candidate space from the index keys. Keys come
// sorted from the index, so ties resolve to the lexicographically smallest key.
func NewFuzzyMatcher(index *Index, threshold float64) *FuzzyMatcher {
	keys := index.Keys()
	candidates := make([]fuzzyCandidate, 0, len(keys))
	for _, k := range keys {
		candidates = append(candidates, fuzzyCandidate{key: k, canonical: CanonicalizeForMatch(k)})
	}
	return &FuzzyMatcher{candidates: candidates, threshold: threshold}
}

// Best returns the highest scoring key for query. ok is false when the best
// score is below the threshold or there is nothing to compare against.
func (m *FuzzyMatcher) Best(query string) (key string, score float64, ok bool) {
	if m == nil || len(m.candidates) == 0 {
		return "", 0, false
	}
	q := CanonicalizeForMatch(query)
	if q == "" {
		return "", 0, false
	}

	best := -1.0
	for _, c := range m.candidates {
		s := fuzzy.WRatio(q, c.canonical)
		if s > best {
			best = s
			key = c.key
		}
	}

	if best < m.threshold {
		return "", best, false
	}
	return key, best, true
}
