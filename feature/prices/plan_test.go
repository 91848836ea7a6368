package prices

import (
	"context"
	"errors"
	"testing"

	"collection-merge/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) TokenByLocalNumber(ctx context.Context, localNumber string) (string, error) {
	args := m.Called(ctx, localNumber)
	return args.String(0), args.Error(1)
}

type mockUpdater struct {
	mock.Mock
}

func (m *mockUpdater) UpdatePrice(ctx context.Context, token string, price int) error {
	return m.Called(ctx, token, price).Error(0)
}

type mockBatchUpdater struct {
	mockUpdater
}

func (m *mockBatchUpdater) UpdatePriceBatch(ctx context.Context, actions []Action) error {
	return m.Called(ctx, actions).Error(0)
}

func item(name string, fields ...reconcile.Field) reconcile.Item {
	return reconcile.Item{ID: name, Name: name, Attributes: reconcile.NewAttributes(fields...)}
}

func planOptions() PlanOptions {
	return PlanOptions{PriceKeys: []string{"Price", "price", "Price (JPY)"}, Match: reconcile.DefaultOptions()}
}

func TestBuildPlan(t *testing.T) {
	ctx := context.Background()
	items := []reconcile.Item{
		item("Black Raku Chawan", reconcile.Field{Name: "Collection URL", Value: reconcile.URL("https://example.org/id/tok1")}),
		item("Shino Mizusashi"),
		item("Bizen Vase", reconcile.Field{Name: "Collection ID", Value: reconcile.PlainText("42")}),
		item("Hagi Bowl"),
		item("Kettle"),
		item("Oribe Plate", reconcile.Field{Name: "Token", Value: reconcile.PlainText("tok5")}),
	}
	rows := []reconcile.Row{
		reconcile.RowFromMap(map[string]any{"Name": "Black Raku Chawan", "Price": "¥12,000"}),
		reconcile.RowFromMap(map[string]any{"Name": "Shino Mizusashi", "Token": "https://example.org/id/tok2", "Price (JPY)": int64(8000)}),
		reconcile.RowFromMap(map[string]any{"Name": "Bizen Vase", "Price": 5000.0}),
		reconcile.RowFromMap(map[string]any{"Name": "Hagi Bowl", "Price": 3000}),
		reconcile.RowFromMap(map[string]any{"Name": "Oribe Plate", "Price": "ask"}),
	}
	records, _ := reconcile.MergeByName(items, rows, reconcile.DefaultOptions())

	resolver := new(mockResolver)
	resolver.On("TokenByLocalNumber", ctx, "42").Return("tok3", nil)

	plan := BuildPlan(ctx, records, planOptions(), resolver)

	require.Len(t, plan.Records, 6)
	assert.Equal(t, []Action{
		{Type: ActionUpdatePrice, Token: "tok1", Name: "Black Raku Chawan", Price: 12000},
		{Type: ActionUpdatePrice, Token: "tok2", Name: "Shino Mizusashi", Price: 8000},
		{Type: ActionUpdatePrice, Token: "tok3", Name: "Bizen Vase", Price: 5000},
	}, plan.Actions)

	assert.Equal(t, Summary{
		Records:             6,
		Updates:             3,
		SkippedUnmatched:    1,
		SkippedMissingToken: 1,
		SkippedMissingPrice: 1,
	}, plan.Summary)

	assert.Equal(t, "42", plan.Records[2].LocalNumber)
	assert.Equal(t, "ask", plan.Records[5].RawPrice)
	assert.Nil(t, plan.Records[5].Price)
	assert.Equal(t, reconcile.MatchNone, plan.Records[4].MatchKind)
	assert.Empty(t, plan.Errors)
	resolver.AssertExpectations(t)
}

func TestBuildPlan_IdentifierKeysAndResolverError(t *testing.T) {
	ctx := context.Background()
	items := []reconcile.Item{
		item("A", reconcile.Field{Name: "Object URL", Value: reconcile.URL("https://x/id/abc")}),
		item("B", reconcile.Field{Name: "Local ID", Value: reconcile.PlainText("X-9")}),
	}
	rows := []reconcile.Row{
		reconcile.RowFromMap(map[string]any{"Token": "abc", "Price": 100}),
		reconcile.RowFromMap(map[string]any{"Local ID": "X-9", "Price": 200}),
	}
	records, _ := reconcile.MergeByIdentifier(items, rows, reconcile.DefaultOptions())

	resolver := new(mockResolver)
	resolver.On("TokenByLocalNumber", ctx, "X-9").Return("", errors.New("db down"))

	plan := BuildPlan(ctx, records, planOptions(), resolver)

	assert.Equal(t, []Action{{Type: ActionUpdatePrice, Token: "abc", Name: "A", Price: 100}}, plan.Actions)
	assert.Equal(t, 1, plan.Summary.SkippedMissingToken)
	require.Len(t, plan.Errors, 1)
	assert.Contains(t, plan.Errors[0], "X-9")
}

func TestBuildPlan_NilResolver(t *testing.T) {
	items := []reconcile.Item{item("Vase", reconcile.Field{Name: "Local Number", Value: reconcile.Number(7)})}
	rows := []reconcile.Row{reconcile.RowFromMap(map[string]any{"Name": "vase", "Price": 10})}
	records, _ := reconcile.MergeByName(items, rows, reconcile.DefaultOptions())

	plan := BuildPlan(context.Background(), records, planOptions(), nil)

	assert.Empty(t, plan.Actions)
	assert.Equal(t, 1, plan.Summary.SkippedMissingToken)
	assert.Equal(t, "7", plan.Records[0].LocalNumber)
}

func TestBuildPlan_FuzzyMatch(t *testing.T) {
	ctx := context.Background()
	items := []reconcile.Item{
		item("Shino Chawan A", reconcile.Field{Name: "Token", Value: reconcile.PlainText("tok-a")}),
	}
	rows := []reconcile.Row{
		reconcile.RowFromMap(map[string]any{"Name": "Shino Chawan B", "Price": 50000, "Token": "tok-b"}),
	}
	records, _ := reconcile.MergeByName(items, rows, reconcile.DefaultOptions())
	require.Equal(t, reconcile.MatchFuzzy, records[0].MatchKind)

	t.Run("SkippedByDefault", func(t *testing.T) {
		plan := BuildPlan(ctx, records, planOptions(), nil)

		assert.Empty(t, plan.Actions)
		assert.Equal(t, 1, plan.Summary.SkippedFuzzy)
		assert.Zero(t, plan.Summary.SkippedMissingPrice)
		require.Len(t, plan.Records, 1)
		assert.Equal(t, "tok-a", plan.Records[0].Token)
		assert.Nil(t, plan.Records[0].Price)
		assert.Nil(t, plan.Records[0].RawPrice)
		assert.Equal(t, [][]any{{"tok-a", "Shino Chawan A", ""}}, OutputRows(plan))
	})

	t.Run("RowTokenIgnored", func(t *testing.T) {
		untokened := []reconcile.Item{item("Shino Chawan A")}
		recs, _ := reconcile.MergeByName(untokened, rows, reconcile.DefaultOptions())

		plan := BuildPlan(ctx, recs, planOptions(), nil)
		assert.Empty(t, plan.Records[0].Token)
		assert.Equal(t, 1, plan.Summary.SkippedFuzzy)
	})

	t.Run("Allowed", func(t *testing.T) {
		opts := planOptions()
		opts.AllowFuzzy = true

		plan := BuildPlan(ctx, records, opts, nil)

		assert.Equal(t, []Action{{Type: ActionUpdatePrice, Token: "tok-a", Name: "Shino Chawan A", Price: 50000}}, plan.Actions)
		assert.Zero(t, plan.Summary.SkippedFuzzy)
	})
}

func TestOutputRows(t *testing.T) {
	price := 1200
	plan := &Plan{Records: []Record{
		{Name: "A", Token: "t1", Price: &price},
		{Name: "B"},
	}}

	assert.Equal(t, [][]any{
		{"t1", "A", 1200},
		{"", "B", ""},
	}, OutputRows(plan))
}

func TestApplyPlan(t *testing.T) {
	ctx := context.Background()
	plan := &Plan{Actions: []Action{
		{Type: ActionUpdatePrice, Token: "a", Price: 1},
		{Type: ActionUpdatePrice, Token: "b", Price: 2},
	}}

	t.Run("NotConfirmed", func(t *testing.T) {
		updater := new(mockUpdater)
		n, err := ApplyPlan(ctx, updater, plan, ApplyOptions{})
		assert.NoError(t, err)
		assert.Zero(t, n)
		updater.AssertNotCalled(t, "UpdatePrice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DryRun", func(t *testing.T) {
		updater := new(mockUpdater)
		n, err := ApplyPlan(ctx, updater, plan, ApplyOptions{Confirmed: true, DryRun: true})
		assert.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("OneAtATime", func(t *testing.T) {
		updater := new(mockUpdater)
		updater.On("UpdatePrice", ctx, "a", 1).Return(nil)
		updater.On("UpdatePrice", ctx, "b", 2).Return(errors.New("locked"))

		n, err := ApplyPlan(ctx, updater, plan, ApplyOptions{Confirmed: true})
		assert.Equal(t, 1, n)
		assert.ErrorContains(t, err, "token=b")
		updater.AssertExpectations(t)
	})

	t.Run("Batch", func(t *testing.T) {
		updater := new(mockBatchUpdater)
		updater.On("UpdatePriceBatch", ctx, plan.Actions).Return(nil)

		n, err := ApplyPlan(ctx, updater, plan, ApplyOptions{Confirmed: true})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		updater.AssertNotCalled(t, "UpdatePrice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BatchError", func(t *testing.T) {
		updater := new(mockBatchUpdater)
		updater.On("UpdatePriceBatch", ctx, plan.Actions).Return(errors.New("tx failed"))

		n, err := ApplyPlan(ctx, updater, plan, ApplyOptions{Confirmed: true})
		assert.Zero(t, n)
		assert.ErrorContains(t, err, "failed to batch update prices")
	})

	t.Run("NoUpdater", func(t *testing.T) {
		_, err := ApplyPlan(ctx, nil, plan, ApplyOptions{Confirmed: true})
		assert.Error(t, err)
	})
}

func TestSummaryTable(t *testing.T) {
	s := Summary{Updates: 3}
	assert.Equal(t, []string{"Metric", "Count"}, s.TableHeader())
	assert.Contains(t, s.TableRows(), []string{"updates", "3"})
	assert.Contains(t, s.TableRows(), []string{"skipped_fuzzy", "0"})
}
