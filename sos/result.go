package sos

import "fmt"

// ResultShape tags the two encodings of an observation result.
type ResultShape int

const (
	// ShapeScalar is a single {value, uom} measurement.
	ShapeScalar ResultShape = iota
	// ShapeBulk is a {fields, values} time series block.
	ShapeBulk
)

func (s ResultShape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeBulk:
		return "bulk"
	default:
		return fmt.Sprintf("ResultShape(%d)", int(s))
	}
}

// Result is a decoded observation result, either ScalarResult or BulkResult.
type Result interface {
	Shape() ResultShape
}

// ScalarResult is one measurement.
type ScalarResult struct {
	Value any
	UOM   string
}

// Shape implements Result.
func (ScalarResult) Shape() ResultShape { return ShapeScalar }

// TimeValue is one [resultTime, result] pair of a bulk result.
type TimeValue struct {
	Time  any
	Value any
}

// BulkResult is a time series sharing one unit of measure.
type BulkResult struct {
	UOM    string
	Values []TimeValue
}

// Shape implements Result.
func (BulkResult) Shape() ResultShape { return ShapeBulk }

// DetectShape reports ShapeBulk when the record's result carries a
// "values" key and ShapeScalar otherwise.
func DetectShape(obs Record) ResultShape {
	res, ok := asRecord(obs["result"])
	if !ok {
		return ShapeScalar
	}
	if _, ok := res["values"]; ok {
		return ShapeBulk
	}
	return ShapeScalar
}

// DecodeResult decodes a raw result payload into its tagged variant.
func DecodeResult(raw any) (Result, error) {
	res, ok := asRecord(raw)
	if ok {
		if _, bulk := res["values"]; bulk {
			return decodeBulk(raw)
		}
	}
	return decodeScalar(raw)
}

func decodeScalar(raw any) (ScalarResult, error) {
	res, ok := asRecord(raw)
	if !ok {
		return ScalarResult{}, missing("result")
	}
	value, ok := res["value"]
	if !ok {
		return ScalarResult{}, missing("result.value")
	}
	uom, ok := res["uom"]
	if !ok {
		return ScalarResult{}, missing("result.uom")
	}
	return ScalarResult{Value: value, UOM: uomText(uom)}, nil
}

func decodeBulk(raw any) (BulkResult, error) {
	res, ok := asRecord(raw)
	if !ok {
		return BulkResult{}, missing("result")
	}
	fields, ok := asSlice(res["fields"])
	if !ok {
		return BulkResult{}, missing("result.fields")
	}
	if len(fields) < 2 {
		return BulkResult{}, missing("result.fields[1]")
	}
	field, ok := asRecord(fields[1])
	if !ok {
		return BulkResult{}, missing("result.fields[1]")
	}
	uom, ok := field["uom"]
	if !ok {
		return BulkResult{}, missing("result.fields[1].uom")
	}

	rawValues, ok := res["values"]
	if !ok {
		return BulkResult{}, missing("result.values")
	}
	values, ok := asSlice(rawValues)
	if !ok {
		return BulkResult{}, missing("result.values")
	}

	out := BulkResult{UOM: uomText(uom), Values: make([]TimeValue, 0, len(values))}
	for i, v := range values {
		pair, ok := asSlice(v)
		if !ok || len(pair) < 2 {
			return BulkResult{}, missing(fmt.Sprintf("result.values[%d][1]", i))
		}
		out.Values = append(out.Values, TimeValue{Time: pair[0], Value: pair[1]})
	}
	return out, nil
}

func uomText(v any) string {
	if s, ok := unwrapText(v, "code", "value"); ok {
		return s
	}
	return ""
}
