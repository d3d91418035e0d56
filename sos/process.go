package sos

import "fmt"

// ProcessObservations flattens a batch of raw observation records into a
// table and parses its resultTime column.
//
// The result shape is read from the first object in the batch and applied
// to every element; a batch mixing scalar and bulk results is not
// supported and fails on the first element of the other shape. Elements
// that are not JSON objects are skipped.
func ProcessObservations(observations []any) (*Table, error) {
	records := make([]Record, 0, len(observations))
	for _, o := range observations {
		if r, ok := asRecord(o); ok {
			records = append(records, r)
		}
	}
	if len(records) == 0 {
		return NewTable(nil), nil
	}

	shape := DetectShape(records[0])
	rows := make([]Record, 0, len(records))
	for i, r := range records {
		switch shape {
		case ShapeBulk:
			bulk, err := FlattenBulk(r)
			if err != nil {
				return nil, fmt.Errorf("observation %d: %w", i, err)
			}
			rows = append(rows, bulk...)
		default:
			row, err := FlattenSingle(r)
			if err != nil {
				return nil, fmt.Errorf("observation %d: %w", i, err)
			}
			rows = append(rows, row)
		}
	}

	table := NewTable(rows)
	if err := table.ParseTime("resultTime"); err != nil {
		return nil, err
	}
	return table, nil
}
