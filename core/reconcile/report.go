package reconcile

// BuildReport counts the outcome of a run. Counters of the matcher's
// strategy are always present, even when zero.
func BuildReport(m Matcher, records []MatchRecord) Report {
	totals := map[string]int{
		TotalItems:     len(records),
		TotalRows:      m.RowCount(),
		TotalUnmatched: 0,
	}
	switch m.Strategy() {
	case StrategyName:
		totals[TotalMatchedExact] = 0
		totals[TotalMatchedFuzzy] = 0
	case StrategyIdentifier:
		totals[TotalMatchedToken] = 0
		totals[TotalMatchedLocalID] = 0
	}

	unmatched := make([]string, 0)
	for _, rec := range records {
		switch rec.MatchKind {
		case MatchExact:
			totals[TotalMatchedExact]++
		case MatchFuzzy:
			totals[TotalMatchedFuzzy]++
		case MatchToken:
			totals[TotalMatchedToken]++
		case MatchLocalID:
			totals[TotalMatchedLocalID]++
		default:
			totals[TotalUnmatched]++
			unmatched = append(unmatched, rec.Name)
		}
	}

	return Report{
		Strategy:           m.Strategy(),
		Totals:             totals,
		UnmatchedItemNames: unmatched,
		DuplicateKeys:      m.DuplicateKeys(),
	}
}

// Matched returns the number of matched records in the report.
func (r Report) Matched() int {
	return r.Totals[TotalItems] - r.Totals[TotalUnmatched]
}
