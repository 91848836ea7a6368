package merge

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"collection-merge/core/output"
	"collection-merge/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func item(name string, fields ...reconcile.Field) reconcile.Item {
	return reconcile.Item{ID: name, Name: name, Attributes: reconcile.NewAttributes(fields...)}
}

func sampleItems() reconcile.StaticItems {
	return reconcile.StaticItems{
		item("Black Raku Chawan", reconcile.Field{Name: "Object URL", Value: reconcile.URL("https://example.org/id/abc123")}),
		item("Shino Mizusashi!"),
		item("Bizen Vase"),
	}
}

func sampleRows() reconcile.StaticRows {
	return reconcile.StaticRows{
		reconcile.RowFromMap(map[string]any{"Name": "black raku chawan", "Token": "abc123", "Price": 1000}),
		reconcile.RowFromMap(map[string]any{"Name": "Shino Mizusashi", "Price": 2000}),
	}
}

func newTestService(t *testing.T, rows reconcile.RowSource) (*Service, string) {
	dir := t.TempDir()
	svc := NewService(sampleItems(), rows, &output.DirSink{Dir: dir}, reconcile.NewMatcherCache(time.Minute),
		reconcile.StrategyName, reconcile.DefaultOptions(), zap.NewNop())
	return svc, dir
}

func TestService_Run(t *testing.T) {
	svc, dir := newTestService(t, sampleRows())

	_, err := svc.Last()
	assert.ErrorIs(t, err, ErrNoRun)

	result, err := svc.Run(context.Background(), RunOptions{Dump: true})
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	assert.Equal(t, reconcile.MatchExact, result.Records[0].MatchKind)
	assert.Equal(t, reconcile.MatchFuzzy, result.Records[1].MatchKind)
	assert.Greater(t, result.Records[1].Score, 92.0)
	assert.Equal(t, reconcile.MatchNone, result.Records[2].MatchKind)
	assert.Equal(t, []string{"Bizen Vase"}, result.Report.UnmatchedItemNames)

	names, err := svc.Outputs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{ReportFile, MergedFile, ItemsDumpFile, RowsDumpFile}, names)

	data, err := os.ReadFile(filepath.Join(dir, ReportFile))
	require.NoError(t, err)
	var report reconcile.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 1, report.Totals[reconcile.TotalMatchedExact])
	assert.Equal(t, 1, report.Totals[reconcile.TotalMatchedFuzzy])
	assert.Equal(t, 1, report.Totals[reconcile.TotalUnmatched])

	data, err = os.ReadFile(filepath.Join(dir, MergedFile))
	require.NoError(t, err)
	var merged []map[string]any
	require.NoError(t, json.Unmarshal(data, &merged))
	require.Len(t, merged, 3)
	assert.Equal(t, "Black Raku Chawan", merged[0]["name"])
	assert.Nil(t, merged[2]["sheet"])

	last, err := svc.Last()
	require.NoError(t, err)
	assert.Same(t, result, last)
}

func TestService_RunIdentifier(t *testing.T) {
	svc, _ := newTestService(t, sampleRows())

	result, err := svc.Run(context.Background(), RunOptions{Strategy: reconcile.StrategyIdentifier})
	require.NoError(t, err)

	assert.Equal(t, reconcile.StrategyIdentifier, result.Report.Strategy)
	assert.Equal(t, reconcile.MatchToken, result.Records[0].MatchKind)
	assert.Equal(t, 1, result.Report.Totals[reconcile.TotalMatchedToken])
	assert.Equal(t, 2, result.Report.Totals[reconcile.TotalUnmatched])
}

func TestService_RunLoadError(t *testing.T) {
	rows := reconcile.RowSourceFunc(func(context.Context) ([]reconcile.Row, error) {
		return nil, errors.New("sheet offline")
	})
	svc, dir := newTestService(t, rows)

	_, err := svc.Run(context.Background(), RunOptions{})
	assert.ErrorContains(t, err, "failed to load rows")

	_, statErr := os.Stat(filepath.Join(dir, MergedFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestService_MergePayload(t *testing.T) {
	svc, _ := newTestService(t, sampleRows())

	result, err := svc.MergePayload(Payload{
		Items: []reconcile.Item{item("Hagi Jawan")},
		Rows:  []reconcile.Row{reconcile.RowFromMap(map[string]any{"Name": "Hagi Chawan"})},
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.MatchNone, result.Records[0].MatchKind)

	result, err = svc.MergePayload(Payload{
		Threshold: 80,
		Items:     []reconcile.Item{item("Hagi Jawan")},
		Rows:      []reconcile.Row{reconcile.RowFromMap(map[string]any{"Name": "Hagi Chawan"})},
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.MatchFuzzy, result.Records[0].MatchKind)

	_, err = svc.MergePayload(Payload{Strategy: "colour"})
	assert.ErrorIs(t, err, reconcile.ErrUnknownStrategy)
}

func TestService_LookupReusesIndices(t *testing.T) {
	var loads atomic.Int32
	rows := reconcile.RowSourceFunc(func(context.Context) ([]reconcile.Row, error) {
		loads.Add(1)
		return sampleRows(), nil
	})
	svc, _ := newTestService(t, rows)
	ctx := context.Background()

	rec, err := svc.Lookup(ctx, "", item("Shino Mizusashi"))
	require.NoError(t, err)
	assert.Equal(t, reconcile.MatchExact, rec.MatchKind)

	rec, err = svc.Lookup(ctx, reconcile.StrategyName, item("Bizen Vase"))
	require.NoError(t, err)
	assert.Equal(t, reconcile.MatchNone, rec.MatchKind)
	assert.Equal(t, int32(1), loads.Load())

	svc.Refresh()
	_, err = svc.Lookup(ctx, "", item("Bizen Vase"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())
}

func TestService_RunSeedsLookupCache(t *testing.T) {
	var loads atomic.Int32
	rows := reconcile.RowSourceFunc(func(context.Context) ([]reconcile.Row, error) {
		loads.Add(1)
		return sampleRows(), nil
	})
	svc, _ := newTestService(t, rows)

	_, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	rec, err := svc.Lookup(context.Background(), "", item("Black Raku Chawan"))
	require.NoError(t, err)
	assert.Equal(t, reconcile.MatchExact, rec.MatchKind)
	assert.Equal(t, int32(1), loads.Load())
}

func TestReportTable(t *testing.T) {
	report := reconcile.Report{
		Strategy: reconcile.StrategyName,
		Totals: map[string]int{
			reconcile.TotalItems:        3,
			reconcile.TotalRows:         2,
			reconcile.TotalMatchedExact: 2,
			reconcile.TotalMatchedFuzzy: 0,
			reconcile.TotalUnmatched:    1,
		},
		DuplicateKeys: []string{"a"},
	}

	table := ReportTable{report}
	assert.Equal(t, []string{"Counter", "Value"}, table.TableHeader())
	assert.Equal(t, [][]string{
		{"strategy", "name"},
		{"items", "3"},
		{"rows", "2"},
		{"matched_exact", "2"},
		{"matched_fuzzy", "0"},
		{"unmatched", "1"},
		{"duplicate_keys", "1"},
	}, table.TableRows())
}
