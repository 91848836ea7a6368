package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"collection-merge/core/reconcile"
	"collection-merge/core/utils"
)

// ParseRecords reads CSV data into rows with the semantics of Records.
func ParseRecords(r io.Reader) ([]reconcile.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	table, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	if len(table) > 0 && len(table[0]) > 0 {
		table[0][0] = strings.TrimPrefix(table[0][0], "\ufeff")
	}
	return Records(table), nil
}

// Records turns a table of cells into rows. The first record is the header;
// columns with an empty header are dropped and blank records are skipped.
// Cells that parse as integers or floats become numbers and empty cells are
// blank. Short records leave their missing cells blank.
func Records(table [][]string) []reconcile.Row {
	if len(table) == 0 {
		return nil
	}

	var (
		headers []string
		columns []int
	)
	for i, h := range table[0] {
		if strings.TrimSpace(h) == "" {
			continue
		}
		headers = append(headers, h)
		columns = append(columns, i)
	}

	var rows []reconcile.Row
	for _, record := range table[1:] {
		if blankRecord(record) {
			continue
		}
		values := make([]any, len(columns))
		for i, col := range columns {
			if col < len(record) {
				values[i] = Numericise(record[col])
			}
		}
		rows = append(rows, reconcile.NewRow(headers, values))
	}
	return rows
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Numericise converts a cell to int64 or float64 when it parses as one.
// Empty cells are nil and everything else stays text. Values with
// underscores are not treated as numbers.
func Numericise(v string) any {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	if strings.Contains(s, "_") {
		return v
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return v
}

// WriteCSV writes a header and rows as CSV. Cells are rendered as text;
// nil cells are empty.
func WriteCSV(w io.Writer, header []string, rows [][]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, 0, len(header))
	for _, row := range rows {
		record = record[:0]
		for _, cell := range row {
			record = append(record, utils.ToString(cell))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
