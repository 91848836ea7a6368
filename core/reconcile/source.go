package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ItemSource loads the primary set.
type ItemSource interface {
	LoadItems(ctx context.Context) ([]Item, error)
}

// RowSource loads the reference set.
type RowSource interface {
	LoadRows(ctx context.Context) ([]Row, error)
}

// ItemSourceFunc adapts a function to ItemSource.
type ItemSourceFunc func(ctx context.Context) ([]Item, error)

func (f ItemSourceFunc) LoadItems(ctx context.Context) ([]Item, error) { return f(ctx) }

// RowSourceFunc adapts a function to RowSource.
type RowSourceFunc func(ctx context.Context) ([]Row, error)

func (f RowSourceFunc) LoadRows(ctx context.Context) ([]Row, error) { return f(ctx) }

// StaticItems serves a fixed item slice.
type StaticItems []Item

func (s StaticItems) LoadItems(context.Context) ([]Item, error) { return s, nil }

// StaticRows serves a fixed row slice.
type StaticRows []Row

func (s StaticRows) LoadRows(context.Context) ([]Row, error) { return s, nil }

// Snapshot is a fully loaded pair of sets. The engine only runs on
// snapshots, never on partially fetched data.
type Snapshot struct {
	Items  []Item
	Rows   []Row
	Loaded time.Time
}

// LoadSnapshot loads both sets concurrently. The item error is reported
// first when both loads fail.
func LoadSnapshot(ctx context.Context, items ItemSource, rows RowSource) (*Snapshot, error) {
	var (
		loadedItems []Item
		loadedRows  []Row
		itemErr     error
		rowErr      error
		wg          sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		loadedItems, itemErr = items.LoadItems(ctx)
	}()

	go func() {
		defer wg.Done()
		loadedRows, rowErr = rows.LoadRows(ctx)
	}()

	wg.Wait()

	if itemErr != nil {
		return nil, fmt.Errorf("failed to load items: %w", itemErr)
	}
	if rowErr != nil {
		return nil, fmt.Errorf("failed to load rows: %w", rowErr)
	}

	return &Snapshot{
		Items:  loadedItems,
		Rows:   loadedRows,
		Loaded: time.Now(),
	}, nil
}
