package reconcile

import (
	"sort"
	"strings"
)

// OverwritePolicy decides which row an index keeps when two rows produce the
// same key.
type OverwritePolicy interface {
	// Name returns the configuration name of the policy.
	Name() string

	// Resolve returns the row to keep for a key already held by existing.
	Resolve(existing, incoming Row) Row
}

const (
	PolicyLastWriteWins  = "last_write_wins"
	PolicyFirstWriteWins = "first_write_wins"
)

type lastWriteWins struct{}

func (lastWriteWins) Name() string { return PolicyLastWriteWins }

func (lastWriteWins) Resolve(_, incoming Row) Row { return incoming }

type firstWriteWins struct{}

func (firstWriteWins) Name() string { return PolicyFirstWriteWins }

func (firstWriteWins) Resolve(existing, _ Row) Row { return existing }

var (
	// LastWriteWins keeps the row that appears later in the input.
	LastWriteWins OverwritePolicy = lastWriteWins{}
	// FirstWriteWins keeps the first row seen for a key.
	FirstWriteWins OverwritePolicy = firstWriteWins{}
)

// Index maps keys to reference rows. It is read-only once built.
type Index struct {
	rows       map[string]Row
	duplicates []string
}

// Lookup returns the row stored under key.
func (x *Index) Lookup(key string) (Row, bool) {
	if x == nil {
		return Row{}, false
	}
	r, ok := x.rows[key]
	return r, ok
}

// Len returns the number of distinct keys.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.rows)
}

// Keys returns the index keys in lexicographic order.
func (x *Index) Keys() []string {
	if x == nil {
		return nil
	}
	keys := make([]string, 0, len(x.rows))
	for k := range x.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Duplicates returns the keys that more than one row produced, in the order
// the first collision was seen.
func (x *Index) Duplicates() []string {
	if x == nil {
		return nil
	}
	return append([]string(nil), x.duplicates...)
}

// keyFunc turns a resolved cell text into an index key. An empty key skips
// the row.
type keyFunc func(value string) string

func buildIndex(rows []Row, candidates []string, policy OverwritePolicy, key keyFunc) *Index {
	if policy == nil {
		policy = LastWriteWins
	}
	idx := &Index{rows: make(map[string]Row, len(rows))}
	seen := make(map[string]bool)

	for _, row := range rows {
		value, ok := row.Text(candidates...)
		if !ok {
			continue
		}
		k := key(value)
		if k == "" {
			continue
		}

		existing, ok := idx.rows[k]
		if !ok {
			idx.rows[k] = row
			continue
		}
		if !seen[k] {
			seen[k] = true
			idx.duplicates = append(idx.duplicates, k)
		}
		idx.rows[k] = policy.Resolve(existing, row)
	}

	return idx
}

// BuildNameIndex indexes rows by normalized name. The first candidate header
// present in a row is used; rows whose name is missing or blank are skipped.
func BuildNameIndex(rows []Row, candidates []string, policy OverwritePolicy) *Index {
	return buildIndex(rows, candidates, policy, NormalizeName)
}

// BuildTokenIndex indexes rows by the lower-cased token extracted from the
// first candidate header present in each row.
func BuildTokenIndex(rows []Row, candidates []string, policy OverwritePolicy) *Index {
	return buildIndex(rows, candidates, policy, func(value string) string {
		token, ok := ExtractToken(value)
		if !ok {
			return ""
		}
		return strings.ToLower(token)
	})
}

// BuildLocalIDIndex indexes rows by the local identifier, lower-cased as is.
// Surrounding whitespace is part of the key.
func BuildLocalIDIndex(rows []Row, candidates []string, policy OverwritePolicy) *Index {
	return buildIndex(rows, candidates, policy, localIDKey)
}

func localIDKey(value string) string {
	return strings.ToLower(value)
}
