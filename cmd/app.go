package cmd

import (
	"context"
	"fmt"
	"time"

	"collection-merge/core/config"
	"collection-merge/core/database"
	"collection-merge/core/logger"
	"collection-merge/core/notion"
	"collection-merge/core/output"
	"collection-merge/core/reconcile"
	"collection-merge/feature/prices"
	"collection-merge/core/sheet"
	"collection-merge/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles the collaborators shared by the commands.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	client   storage.Client
	items    reconcile.ItemSource
	rows     reconcile.RowSource
	sink     output.Sink
	opts     reconcile.Options
	strategy reconcile.Strategy
}

// bootstrap loads configuration and builds the sources and the output sink.
// The storage client is only created when a sheet object or the storage
// output target needs it.
func bootstrap(ctx context.Context, override func(*config.Config)) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if override != nil {
		override(cfg)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	opts, err := cfg.Match.Options()
	if err != nil {
		return nil, err
	}
	strategy, err := cfg.Match.DefaultStrategy()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: l, opts: opts, strategy: strategy}

	if cfg.Sheet.Source() == sheet.SourceObject || cfg.Output.Target == output.TargetStorage {
		if a.client, err = storage.NewClient(cfg.Storage); err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	items, err := notion.NewClient(cfg.Notion, l)
	if err != nil {
		return nil, err
	}
	a.items = items

	rows, err := sheet.NewReader(cfg.Sheet, a.client, cfg.Storage.Bucket, l)
	if err != nil {
		return nil, err
	}
	a.rows = rows

	sink, err := output.New(cfg.Output, a.client, cfg.Storage.Bucket, cfg.Storage.Region)
	if err != nil {
		return nil, err
	}
	if s, ok := sink.(*output.StorageSink); ok {
		if err := s.Ensure(ctx); err != nil {
			return nil, err
		}
	}
	a.sink = sink

	return a, nil
}

// connectDB opens the collection database. The database is optional, so
// failures are logged and nil is returned.
func (a *app) connectDB() *gorm.DB {
	db, err := database.Connect(a.cfg.Database)
	if err != nil {
		a.log.Warn("Optional database connection failed", zap.Error(err))
		return nil
	}
	a.log.Info("Connected to collection database", zap.String("driver", a.cfg.Database.Driver))
	return db
}

// cacheTTL is how long lookup indices are reused.
func (a *app) cacheTTL() time.Duration {
	return time.Duration(a.cfg.Match.CacheTTLSeconds) * time.Second
}

// pricesService builds the price service. A spreadsheet source with write
// back enabled also gets the merged price worksheet.
func (a *app) pricesService(store *prices.Store) (*prices.Service, error) {
	svc := prices.NewService(a.items, a.rows, store, a.sink, a.cfg.Prices, a.opts, a.log)
	if a.cfg.Sheet.Source() != sheet.SourceSheets || !a.cfg.Sheet.WriteBack {
		return svc, nil
	}
	w, err := sheet.NewWriter(a.cfg.Sheet, a.log)
	if err != nil {
		return nil, err
	}
	return svc.WithWorksheet(w), nil
}
