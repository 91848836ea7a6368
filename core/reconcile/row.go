package reconcile

import (
	"encoding/json"
	"sort"

	"collection-merge/core/utils"
)

// Row is a reference set record: column headers mapped to scalar cells
// (string, integer, float, or nil for blank). Header lookups are
// case-insensitive. Rows are read-only once built.
type Row struct {
	headers []string
	values  []any
	index   foldIndex
}

// NewRow builds a row from parallel header and value slices. Missing values
// are blank. When two headers fold to the same key, the later one is used.
func NewRow(headers []string, values []any) Row {
	r := Row{
		headers: append([]string(nil), headers...),
		values:  make([]any, len(headers)),
		index:   newFoldIndex(headers),
	}
	for i := range headers {
		if i < len(values) {
			r.values[i] = utils.Scalar(values[i])
		}
	}
	return r
}

// RowFromMap builds a row from a map. Headers are sorted so that folding
// collisions resolve the same way on every run.
func RowFromMap(m map[string]any) Row {
	headers := make([]string, 0, len(m))
	for h := range m {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = m[h]
	}
	return NewRow(headers, values)
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.headers)
}

// Headers returns the column headers in source order.
func (r Row) Headers() []string {
	return append([]string(nil), r.headers...)
}

// Get returns the cell under header, compared case-insensitively.
func (r Row) Get(header string) (any, bool) {
	return r.Lookup(header)
}

// Lookup returns the cell of the first candidate header present in the row.
// Only presence counts: a blank cell under the first present header is
// returned as is and later candidates are not consulted.
func (r Row) Lookup(candidates ...string) (any, bool) {
	i, ok := r.index.resolve(candidates)
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Text is Lookup rendered as text. Blank cells render as absent.
func (r Row) Text(candidates ...string) (string, bool) {
	v, ok := r.Lookup(candidates...)
	if !ok {
		return "", false
	}
	s := utils.ToString(v)
	return s, s != ""
}

// Map returns the row as a plain map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.headers))
	for i, h := range r.headers {
		m[h] = r.values[i]
	}
	return m
}

// MarshalJSON encodes the row as a JSON object in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	return utils.EncodeOrderedObject(r.headers, r.values)
}

// UnmarshalJSON decodes a JSON object keeping its column order. Integral
// numbers decode as int64, other numbers as float64.
func (r *Row) UnmarshalJSON(data []byte) error {
	var headers []string
	var values []any
	err := utils.WalkObject(data, func(key string, raw json.RawMessage) error {
		v, err := utils.DecodeScalar(raw)
		if err != nil {
			return err
		}
		headers = append(headers, key)
		values = append(values, v)
		return nil
	})
	if err != nil {
		return err
	}
	*r = NewRow(headers, values)
	return nil
}
