package sheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"collection-merge/core/reconcile"
	"collection-merge/core/storage"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"
)

// ErrNoSource is returned when no sheet source is configured.
var ErrNoSource = errors.New("no sheet source configured")

// Reader loads reference rows from the configured source.
type Reader struct {
	cfg    Config
	client storage.Client
	bucket string
	http   *http.Client
	log    *zap.Logger
}

// NewReader creates a reader. The storage client is only needed for object
// sources and may be nil otherwise.
func NewReader(cfg Config, client storage.Client, bucket string, log *zap.Logger) (*Reader, error) {
	if cfg.Source() == SourceNone {
		return nil, ErrNoSource
	}
	if cfg.Source() == SourceObject && client == nil {
		return nil, fmt.Errorf("sheet object %s requires a storage client", cfg.Object)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{
		cfg:    cfg,
		client: client,
		bucket: bucket,
		http:   &http.Client{Timeout: cfg.timeout()},
		log:    log,
	}, nil
}

// LoadRows reads and parses the sheet.
func (r *Reader) LoadRows(ctx context.Context) ([]reconcile.Row, error) {
	if r.cfg.Source() == SourceSheets {
		return r.loadSpreadsheet(ctx)
	}

	data, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := ParseRecords(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet: %w", err)
	}

	r.log.Debug("Loaded sheet rows",
		zap.String("source", r.cfg.Source()),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

func (r *Reader) fetch(ctx context.Context) ([]byte, error) {
	switch r.cfg.Source() {
	case SourcePath:
		data, err := os.ReadFile(r.cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet file: %w", err)
		}
		return data, nil
	case SourceObject:
		return storage.ReadObject(ctx, r.client, r.bucket, r.cfg.Object)
	case SourceURL:
		return r.download(ctx, r.cfg.URL)
	default:
		return nil, ErrNoSource
	}
}

func (r *Reader) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download sheet: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet body: %w", err)
	}
	return data, nil
}

// loadSpreadsheet reads the configured worksheet through the Sheets API,
// the first worksheet when none is named.
func (r *Reader) loadSpreadsheet(ctx context.Context) ([]reconcile.Row, error) {
	svc, err := newService(ctx, r.cfg, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, err
	}

	title := r.cfg.Worksheet
	if title == "" {
		doc, err := svc.Spreadsheets.Get(r.cfg.SpreadsheetID).
			Fields("sheets.properties.title").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to open spreadsheet %s: %w", r.cfg.SpreadsheetID, err)
		}
		if len(doc.Sheets) == 0 || doc.Sheets[0].Properties == nil {
			return nil, fmt.Errorf("spreadsheet %s has no worksheets", r.cfg.SpreadsheetID)
		}
		title = doc.Sheets[0].Properties.Title
	}

	resp, err := svc.Spreadsheets.Values.Get(r.cfg.SpreadsheetID, a1Sheet(title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %s: %w", title, err)
	}

	table := make([][]string, len(resp.Values))
	for i, record := range resp.Values {
		cells := make([]string, len(record))
		for j, v := range record {
			cells[j] = cellText(v)
		}
		table[i] = cells
	}
	rows := Records(table)

	r.log.Debug("Loaded sheet rows",
		zap.String("source", SourceSheets),
		zap.String("worksheet", title),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}
