package sos

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// leadingColumns fixes the position of well-known columns; everything else
// follows in lexical order.
var leadingColumns = []string{
	"identifier", "lat", "lon",
	"featureOfInterest", "procedure", "observedProperty",
	"fromDate", "toDate",
	"resultTime", "result", "uom",
}

// Table is a row-oriented set of flat records whose column set is the union
// of the keys of its rows.
type Table struct {
	columns []string
	rows    []Record
}

// NewTable builds a table over rows. The rows are copied.
func NewTable(rows []Record) *Table {
	t := &Table{rows: make([]Record, 0, len(rows))}
	seen := make(map[string]struct{})
	for _, r := range rows {
		t.rows = append(t.rows, r.Clone())
		for k := range r {
			seen[k] = struct{}{}
		}
	}

	for _, c := range leadingColumns {
		if _, ok := seen[c]; ok {
			t.columns = append(t.columns, c)
			delete(seen, c)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	t.columns = append(t.columns, rest...)
	return t
}

// Columns returns the column names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether any row carries name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// Row returns a copy of row i.
func (t *Table) Row(i int) Record {
	return t.rows[i].Clone()
}

// Rows returns copies of all rows.
func (t *Table) Rows() []Record {
	out := make([]Record, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Clone()
	}
	return out
}

// Column returns the values of one column; rows lacking it yield nil.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[name]
	}
	return out
}

// Filter returns a new table holding the rows keep accepts.
func (t *Table) Filter(keep func(Record) bool) *Table {
	rows := make([]Record, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return NewTable(rows)
}

// ParseTime converts every value of column name into a time.Time. It fails
// when a row lacks the column or holds a value that is not a timestamp.
func (t *Table) ParseTime(name string) error {
	for i, r := range t.rows {
		v, ok := r[name]
		if !ok {
			return fmt.Errorf("row %d: %w", i, missing(name))
		}
		switch tv := v.(type) {
		case time.Time:
			continue
		case string:
			ts, err := ParseTimestamp(tv)
			if err != nil {
				return fmt.Errorf("row %d %s: %w", i, name, err)
			}
			r[name] = ts
		default:
			return fmt.Errorf("row %d %s: %w: %v", i, name, ErrInvalidTimestamp, v)
		}
	}
	return nil
}

// MarshalJSON encodes the table as an array of row objects.
func (t *Table) MarshalJSON() ([]byte, error) {
	if t.rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.rows)
}

// WriteCSV writes a header line followed by one line per row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return err
	}
	line := make([]string, len(t.columns))
	for _, r := range t.rows {
		for i, c := range t.columns {
			line[i] = cellText(r[c])
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellText(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case time.Time:
		return tv.Format(time.RFC3339Nano)
	case float64, float32, int, int64, bool:
		return fmt.Sprint(tv)
	default:
		b, err := json.Marshal(tv)
		if err != nil {
			return fmt.Sprint(tv)
		}
		return string(b)
	}
}
