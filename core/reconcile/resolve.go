package reconcile

import "strings"

// foldIndex maps lower-cased names to positions. It is built once per mapping
// so candidate lookups do not fold every key again.
type foldIndex map[string]int

// newFoldIndex indexes names by their lower-cased form. Later names win when
// two of them fold to the same key.
func newFoldIndex(names []string) foldIndex {
	idx := make(foldIndex, len(names))
	for i, name := range names {
		idx[strings.ToLower(name)] = i
	}
	return idx
}

// resolve returns the position of the first candidate present in the index.
func (f foldIndex) resolve(candidates []string) (int, bool) {
	for _, c := range candidates {
		if i, ok := f[strings.ToLower(c)]; ok {
			return i, true
		}
	}
	return -1, false
}
