package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ToString renders a cell value as text. Nil renders empty and floats use the
// shortest representation that round-trips.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Scalar narrows a value to the cell types rows carry: string, int64,
// float64, or nil. Other integer widths widen to int64, byte slices become
// strings, and anything else is rendered as text.
func Scalar(val any) any {
	switch v := val.(type) {
	case nil, string, int64, float64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint32:
		return int64(v)
	case float32:
		return float64(v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case []byte:
		return string(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return ToString(v)
	}
}

// DecodeScalar decodes a JSON value into a cell. Integral numbers become
// int64, other numbers float64. Arrays and objects are kept as their JSON text.
func DecodeScalar(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return string(trimmed), nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode cell: %w", err)
	}
	return Scalar(v), nil
}
