package sheet

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"
)

// ErrNoSpreadsheet is returned when a writer is created without a spreadsheet id.
var ErrNoSpreadsheet = errors.New("no spreadsheet configured")

// Writer adds worksheets to the configured spreadsheet.
type Writer struct {
	cfg Config
	log *zap.Logger
}

// NewWriter creates a writer for cfg.SpreadsheetID. Credentials are resolved
// on each write, the same way the reader resolves them.
func NewWriter(cfg Config, log *zap.Logger) (*Writer, error) {
	if cfg.SpreadsheetID == "" {
		return nil, ErrNoSpreadsheet
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{cfg: cfg, log: log}, nil
}

// WriteWorksheet adds a worksheet called title sized for the rows plus ten
// spare lines and fills it from A1 with the header and rows. Values are
// entered as a user would type them.
func (w *Writer) WriteWorksheet(ctx context.Context, title string, header []string, rows [][]any) error {
	svc, err := newService(ctx, w.cfg, sheets.SpreadsheetsScope)
	if err != nil {
		return err
	}

	cols := len(header)
	for _, row := range rows {
		cols = max(cols, len(row))
	}

	add := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(max(1, len(rows)+10)),
						ColumnCount: int64(max(1, cols)),
					},
				},
			},
		}},
	}
	if _, err := svc.Spreadsheets.BatchUpdate(w.cfg.SpreadsheetID, add).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to add worksheet %s: %w", title, err)
	}

	values := make([][]any, 0, len(rows)+1)
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	values = append(values, head)
	values = append(values, rows...)

	_, err = svc.Spreadsheets.Values.Update(w.cfg.SpreadsheetID, a1Sheet(title)+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to fill worksheet %s: %w", title, err)
	}

	w.log.Debug("Worksheet written",
		zap.String("spreadsheet", w.cfg.SpreadsheetID),
		zap.String("title", title),
		zap.Int("rows", len(rows)),
	)
	return nil
}
