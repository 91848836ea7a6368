package merge

import (
	"context"
	"errors"
	"sync"
	"time"

	"collection-merge/core/output"
	"collection-merge/core/reconcile"

	"go.uber.org/zap"
)

// Output names written by a run.
const (
	MergedFile    = "merged.json"
	ReportFile    = "merge_report.json"
	ItemsDumpFile = "notion_raw.json"
	RowsDumpFile  = "sheets_raw.json"
)

// ErrNoRun is returned when no merge result is available yet.
var ErrNoRun = errors.New("no merge has run yet")

// RunOptions configures a single run.
type RunOptions struct {
	// Strategy overrides the configured strategy when set.
	Strategy reconcile.Strategy
	// Threshold overrides the fuzzy threshold when positive.
	Threshold float64
	// Dump also writes the loaded sets.
	Dump bool
}

// Result is the outcome of a run.
type Result struct {
	Records  []reconcile.MatchRecord `json:"records"`
	Report   reconcile.Report        `json:"report"`
	Finished time.Time               `json:"finished"`
}

// Service runs merges between the primary and reference sets.
type Service struct {
	items    reconcile.ItemSource
	rows     reconcile.RowSource
	sink     output.Sink
	cache    *reconcile.MatcherCache
	strategy reconcile.Strategy
	opts     reconcile.Options
	logger   *zap.Logger

	mu   sync.RWMutex
	last *Result
}

// NewService creates a merge service. sink may be nil, in which case runs
// only keep their result in memory.
func NewService(items reconcile.ItemSource, rows reconcile.RowSource, sink output.Sink, cache *reconcile.MatcherCache, strategy reconcile.Strategy, opts reconcile.Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = reconcile.NewMatcherCache(0)
	}
	if strategy == "" {
		strategy = reconcile.StrategyName
	}
	return &Service{
		items:    items,
		rows:     rows,
		sink:     sink,
		cache:    cache,
		strategy: strategy,
		opts:     opts,
		logger:   logger,
	}
}

func (s *Service) resolve(strategy reconcile.Strategy, threshold float64) (reconcile.Strategy, reconcile.Options) {
	if strategy == "" {
		strategy = s.strategy
	}
	opts := s.opts
	if threshold > 0 {
		opts.FuzzyThreshold = threshold
	}
	return strategy, opts
}

// Run loads both sets, merges them and writes the outputs.
func (s *Service) Run(ctx context.Context, ro RunOptions) (*Result, error) {
	strategy, opts := s.resolve(ro.Strategy, ro.Threshold)

	snap, err := reconcile.LoadSnapshot(ctx, s.items, s.rows)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Loaded merge sources",
		zap.Int("items", len(snap.Items)),
		zap.Int("rows", len(snap.Rows)),
	)

	if ro.Dump && s.sink != nil {
		if err := output.WriteJSON(ctx, s.sink, ItemsDumpFile, snap.Items); err != nil {
			return nil, err
		}
		if err := output.WriteJSON(ctx, s.sink, RowsDumpFile, snap.Rows); err != nil {
			return nil, err
		}
	}

	m, err := reconcile.NewMatcher(strategy, snap.Rows, opts)
	if err != nil {
		return nil, err
	}
	s.cache.Put(opts, m)

	records, report := reconcile.Merge(m, snap.Items)
	result := &Result{Records: records, Report: report, Finished: time.Now()}

	if s.sink != nil {
		if err := output.WriteJSON(ctx, s.sink, MergedFile, records); err != nil {
			return nil, err
		}
		if err := output.WriteJSON(ctx, s.sink, ReportFile, report); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	s.logReport(report)
	return result, nil
}

func (s *Service) logReport(r reconcile.Report) {
	fields := []zap.Field{
		zap.String("strategy", string(r.Strategy)),
		zap.Int("matched", r.Matched()),
	}
	for _, k := range reportCounters(r) {
		fields = append(fields, zap.Int(k, r.Totals[k]))
	}
	if len(r.DuplicateKeys) > 0 {
		fields = append(fields, zap.Int("duplicate_keys", len(r.DuplicateKeys)))
	}
	s.logger.Info("Merge completed", fields...)
}

// Last returns the result of the most recent run.
func (s *Service) Last() (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, ErrNoRun
	}
	return s.last, nil
}

// Payload is an inline merge request.
type Payload struct {
	Strategy  string           `json:"strategy"`
	Threshold float64          `json:"threshold"`
	Items     []reconcile.Item `json:"items"`
	Rows      []reconcile.Row  `json:"rows"`
}

// MergePayload merges sets supplied by the caller. Nothing is written.
func (s *Service) MergePayload(p Payload) (*Result, error) {
	parsed, err := parseOptionalStrategy(p.Strategy)
	if err != nil {
		return nil, err
	}
	strategy, opts := s.resolve(parsed, p.Threshold)

	records, report, err := reconcile.MergeWithStrategy(strategy, p.Items, p.Rows, opts)
	if err != nil {
		return nil, err
	}
	return &Result{Records: records, Report: report, Finished: time.Now()}, nil
}

// Lookup matches a single item against the reference set, reusing indices
// built by earlier runs or lookups while they are fresh.
func (s *Service) Lookup(ctx context.Context, strategy reconcile.Strategy, item reconcile.Item) (reconcile.MatchRecord, error) {
	strategy, opts := s.resolve(strategy, 0)
	m, err := s.cache.GetOrBuild(ctx, strategy, opts, s.rows)
	if err != nil {
		return reconcile.MatchRecord{}, err
	}
	return m.Match(item), nil
}

// Refresh drops cached indices so the next lookup reloads the rows.
func (s *Service) Refresh() {
	s.cache.Clear()
}

// Outputs lists the files in the output target.
func (s *Service) Outputs(ctx context.Context) ([]string, error) {
	if s.sink == nil {
		return []string{}, nil
	}
	return s.sink.List(ctx)
}

func parseOptionalStrategy(v string) (reconcile.Strategy, error) {
	if v == "" {
		return "", nil
	}
	return reconcile.ParseStrategy(v)
}
