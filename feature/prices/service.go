package prices

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"collection-merge/core/output"
	"collection-merge/core/reconcile"
	"collection-merge/core/sheet"

	"go.uber.org/zap"
)

var (
	// ErrNotConfirmed is returned when updates are requested without confirmation.
	ErrNotConfirmed = errors.New("price updates require confirmation")
	// ErrNoDatabase is returned when updates are requested without a store.
	ErrNoDatabase = errors.New("no database configured")
)

// WorksheetWriter adds a worksheet to the reference spreadsheet.
type WorksheetWriter interface {
	WriteWorksheet(ctx context.Context, title string, header []string, rows [][]any) error
}

// Service plans and applies price updates from the reference sheet.
type Service struct {
	items     reconcile.ItemSource
	rows      reconcile.RowSource
	store     *Store
	sink      output.Sink
	worksheet WorksheetWriter
	cfg       Config
	opts      reconcile.Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a price service. store and sink may be nil, which
// disables token lookups and updates, or the merged sheet respectively.
func NewService(items reconcile.ItemSource, rows reconcile.RowSource, store *Store, sink output.Sink, cfg Config, opts reconcile.Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		items:  items,
		rows:   rows,
		store:  store,
		sink:   sink,
		cfg:    cfg,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// WithWorksheet makes Plan also write the merged sheet back to the
// spreadsheet as a new worksheet.
func (s *Service) WithWorksheet(w WorksheetWriter) *Service {
	s.worksheet = w
	return s
}

// Plan loads both sets, keeps the owned items, matches them by name and
// plans the updates. The merged price sheet is written to the sink.
func (s *Service) Plan(ctx context.Context) (*Plan, error) {
	snap, err := reconcile.LoadSnapshot(ctx, s.items, s.rows)
	if err != nil {
		return nil, err
	}

	owned := FilterInCollection(snap.Items, s.cfg.InCollectionProperty)
	records, _ := reconcile.MergeByName(owned, snap.Rows, s.opts)

	var resolver TokenResolver
	if s.store != nil {
		resolver = s.store
	}
	plan := BuildPlan(ctx, records, PlanOptions{
		PriceKeys:  s.cfg.priceKeys(),
		Match:      s.opts,
		AllowFuzzy: s.cfg.AllowFuzzy,
	}, resolver)
	plan.Summary.InCollection = len(owned)
	plan.Summary.SheetRows = len(snap.Rows)

	for _, e := range plan.Errors {
		s.logger.Warn("Token lookup failed", zap.String("error", e))
	}
	s.logger.Info("Price plan built",
		zap.Int("in_collection", plan.Summary.InCollection),
		zap.Int("sheet_rows", plan.Summary.SheetRows),
		zap.Int("updates", plan.Summary.Updates),
		zap.Int("skipped_unmatched", plan.Summary.SkippedUnmatched),
		zap.Int("skipped_fuzzy", plan.Summary.SkippedFuzzy),
		zap.Int("skipped_missing_token", plan.Summary.SkippedMissingToken),
		zap.Int("skipped_missing_price", plan.Summary.SkippedMissingPrice),
	)

	if s.sink != nil {
		if err := s.writeOutput(ctx, plan); err != nil {
			return nil, err
		}
	}
	if s.worksheet != nil {
		title := s.cfg.worksheet(s.now())
		if err := s.worksheet.WriteWorksheet(ctx, title, OutputHeader, OutputRows(plan)); err != nil {
			return nil, fmt.Errorf("failed to write worksheet %s: %w", title, err)
		}
		s.logger.Info("Merged worksheet written", zap.String("title", title))
	}
	return plan, nil
}

func (s *Service) writeOutput(ctx context.Context, plan *Plan) error {
	var buf bytes.Buffer
	if err := sheet.WriteCSV(&buf, OutputHeader, OutputRows(plan)); err != nil {
		return fmt.Errorf("failed to render %s: %w", s.cfg.output(), err)
	}
	return s.sink.Write(ctx, s.cfg.output(), buf.Bytes())
}

// Apply writes the planned updates. Dry runs return without touching the
// database; otherwise opts.Confirmed is required.
func (s *Service) Apply(ctx context.Context, plan *Plan, opts ApplyOptions) (int, error) {
	if opts.DryRun {
		s.logger.Info("Dry-run mode: no prices were updated", zap.Int("planned", len(plan.Actions)))
		return 0, nil
	}
	if !opts.Confirmed {
		return 0, ErrNotConfirmed
	}
	if s.store == nil {
		return 0, ErrNoDatabase
	}

	executed, err := ApplyPlan(ctx, s.store, plan, opts)
	if err != nil {
		s.logger.Error("Price update failed", zap.Int("executed", executed), zap.Error(err))
		return executed, err
	}
	s.logger.Info("Prices updated", zap.Int("count", executed))
	return executed, nil
}

// Run plans and applies in one step.
func (s *Service) Run(ctx context.Context, opts ApplyOptions) (*Plan, int, error) {
	if !opts.DryRun && !opts.Confirmed {
		return nil, 0, ErrNotConfirmed
	}
	plan, err := s.Plan(ctx)
	if err != nil {
		return nil, 0, err
	}
	executed, err := s.Apply(ctx, plan, opts)
	return plan, executed, err
}
