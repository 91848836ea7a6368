package merge

import (
	"strconv"

	"collection-merge/core/reconcile"
)

var counterOrder = []string{
	reconcile.TotalItems,
	reconcile.TotalRows,
	reconcile.TotalMatchedExact,
	reconcile.TotalMatchedFuzzy,
	reconcile.TotalMatchedToken,
	reconcile.TotalMatchedLocalID,
	reconcile.TotalUnmatched,
}

// reportCounters returns the counters present in r in display order.
func reportCounters(r reconcile.Report) []string {
	keys := make([]string, 0, len(r.Totals))
	for _, k := range counterOrder {
		if _, ok := r.Totals[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// ReportTable renders a report as a counter table.
type ReportTable struct {
	reconcile.Report `yaml:",inline"`
}

func (ReportTable) TableHeader() []string { return []string{"Counter", "Value"} }

func (t ReportTable) TableRows() [][]string {
	rows := [][]string{{"strategy", string(t.Strategy)}}
	for _, k := range reportCounters(t.Report) {
		rows = append(rows, []string{k, strconv.Itoa(t.Totals[k])})
	}
	if n := len(t.DuplicateKeys); n > 0 {
		rows = append(rows, []string{"duplicate_keys", strconv.Itoa(n)})
	}
	return rows
}
