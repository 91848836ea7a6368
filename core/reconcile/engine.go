package reconcile

import (
	"fmt"
	"strings"
)

// Matcher matches single items against prepared reference indices. Matchers
// are read-only after construction and safe for concurrent use.
type Matcher interface {
	// Strategy returns the cascade this matcher implements.
	Strategy() Strategy

	// Match classifies one item. It never fails; unresolved items get MatchNone.
	Match(item Item) MatchRecord

	// RowCount returns the number of reference rows the indices were built from.
	RowCount() int

	// DuplicateKeys returns the keys that collided while building the indices.
	DuplicateKeys() []string
}

// NameMatcher implements the exact then fuzzy name cascade.
type NameMatcher struct {
	index *Index
	fuzzy *FuzzyMatcher
	rows  int
}

// NewNameMatcher builds the name index and its fuzzy candidate space.
func NewNameMatcher(rows []Row, opts Options) *NameMatcher {
	index := BuildNameIndex(rows, opts.RowNameKeys, opts.policy())
	return &NameMatcher{
		index: index,
		fuzzy: NewFuzzyMatcher(index, opts.FuzzyThreshold),
		rows:  len(rows),
	}
}

func (m *NameMatcher) Strategy() Strategy { return StrategyName }

func (m *NameMatcher) RowCount() int { return m.rows }

func (m *NameMatcher) DuplicateKeys() []string { return m.index.Duplicates() }

// Match looks the normalized item name up in the name index and falls back to
// fuzzy scoring only on a miss.
func (m *NameMatcher) Match(item Item) MatchRecord {
	rec := MatchRecord{Name: item.Name, Item: item, MatchKind: MatchNone}

	name := NormalizeName(item.Name)
	if row, ok := m.index.Lookup(name); ok && name != "" {
		rec.Row = &row
		rec.MatchKind = MatchExact
		return rec
	}
	if name == "" || m.index.Len() == 0 {
		return rec
	}

	key, score, ok := m.fuzzy.Best(name)
	if !ok {
		return rec
	}
	row, _ := m.index.Lookup(key)
	rec.Row = &row
	rec.MatchKind = MatchFuzzy
	rec.Score = score
	return rec
}

// IdentifierMatcher implements the token then local identifier cascade.
type IdentifierMatcher struct {
	tokens   *Index
	localIDs *Index
	opts     Options
	rows     int
}

// NewIdentifierMatcher builds the token and local identifier indices.
func NewIdentifierMatcher(rows []Row, opts Options) *IdentifierMatcher {
	return &IdentifierMatcher{
		tokens:   BuildTokenIndex(rows, opts.SheetTokenKeys, opts.policy()),
		localIDs: BuildLocalIDIndex(rows, opts.SheetLocalIDKeys, opts.policy()),
		opts:     opts,
		rows:     len(rows),
	}
}

func (m *IdentifierMatcher) Strategy() Strategy { return StrategyIdentifier }

func (m *IdentifierMatcher) RowCount() int { return m.rows }

func (m *IdentifierMatcher) DuplicateKeys() []string {
	return append(m.tokens.Duplicates(), m.localIDs.Duplicates()...)
}

// ExtractKeys reads the token and local identifier of an item.
func (m *IdentifierMatcher) ExtractKeys(item Item) MatchKeys {
	var keys MatchKeys
	if raw, ok := item.Attributes.Text(m.opts.ItemTokenFields...); ok {
		if token, ok := ExtractToken(raw); ok {
			keys.Token = token
		}
	}
	if raw, ok := item.Attributes.Text(m.opts.ItemLocalIDFields...); ok {
		keys.LocalID = raw
	}
	return keys
}

// Match tries the token index first and the local identifier index second.
// The extracted keys are recorded even when both lookups miss.
func (m *IdentifierMatcher) Match(item Item) MatchRecord {
	keys := m.ExtractKeys(item)
	rec := MatchRecord{Name: item.Name, Item: item, MatchKind: MatchNone, MatchKeys: &keys}

	if keys.Token != "" {
		if row, ok := m.tokens.Lookup(strings.ToLower(keys.Token)); ok {
			rec.Row = &row
			rec.MatchKind = MatchToken
			return rec
		}
	}
	if keys.LocalID != "" {
		if row, ok := m.localIDs.Lookup(localIDKey(keys.LocalID)); ok {
			rec.Row = &row
			rec.MatchKind = MatchLocalID
			return rec
		}
	}
	return rec
}

// NewMatcher builds the matcher for strategy.
func NewMatcher(strategy Strategy, rows []Row, opts Options) (Matcher, error) {
	switch strategy {
	case StrategyName:
		return NewNameMatcher(rows, opts), nil
	case StrategyIdentifier:
		return NewIdentifierMatcher(rows, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// Merge matches every item in order and builds the run report. The result
// always has exactly one record per item.
func Merge(m Matcher, items []Item) ([]MatchRecord, Report) {
	records := make([]MatchRecord, len(items))
	for i, item := range items {
		records[i] = m.Match(item)
	}
	return records, BuildReport(m, records)
}

// MergeByName runs the name cascade over items and rows.
func MergeByName(items []Item, rows []Row, opts Options) ([]MatchRecord, Report) {
	return Merge(NewNameMatcher(rows, opts), items)
}

// MergeByIdentifier runs the identifier cascade over items and rows.
func MergeByIdentifier(items []Item, rows []Row, opts Options) ([]MatchRecord, Report) {
	return Merge(NewIdentifierMatcher(rows, opts), items)
}

// MergeWithStrategy dispatches to the cascade named by strategy.
func MergeWithStrategy(strategy Strategy, items []Item, rows []Row, opts Options) ([]MatchRecord, Report, error) {
	m, err := NewMatcher(strategy, rows, opts)
	if err != nil {
		return nil, Report{}, err
	}
	records, report := Merge(m, items)
	return records, report, nil
}
