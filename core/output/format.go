package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// Format is a command output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Table is data that can render itself as rows.
type Table interface {
	TableHeader() []string
	TableRows() [][]string
}

// ParseFormat validates a format flag. An empty value detects the format
// from the terminal.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return DetectFormat(), nil
	default:
		return "", fmt.Errorf("unknown output format %q (use table, json or yaml)", s)
	}
}

// DetectFormat prints tables to terminals and JSON to pipes.
func DetectFormat() Format {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}

// Print writes v in the given format. Values that are not a Table fall back
// to JSON in table mode.
func Print(w io.Writer, format Format, v any) error {
	switch format {
	case FormatYAML:
		data, err := yaml.MarshalWithOptions(v, yaml.UseJSONMarshaler())
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatTable:
		if t, ok := v.(Table); ok {
			return printTable(w, t)
		}
		fallthrough
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func printTable(w io.Writer, t Table) error {
	table := tablewriter.NewTable(w)

	header := t.TableHeader()
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	table.Header(cells...)

	for _, row := range t.TableRows() {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}
