package sos

import (
	"fmt"
	"strconv"
)

// Record is one decoded JSON object: a raw response element or a flat row.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func asRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, m != nil
	case map[string]any:
		return Record(m), m != nil
	default:
		return nil, false
	}
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case [][]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	default:
		return nil, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// unwrapText returns the text of a value delivered either bare or wrapped
// in an object under one of keys (e.g. {"value": "X"} or {"href": "X"}).
func unwrapText(v any, keys ...string) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64, bool:
		return fmt.Sprint(t), true
	}
	if m, ok := asRecord(v); ok {
		for _, k := range keys {
			if inner, ok := m[k]; ok {
				return unwrapText(inner, keys...)
			}
		}
	}
	return "", false
}
