package sos

// flattenBase copies obs, merges the parsed feature of interest into it and
// drops the nested featureOfInterest and phenomenonTime.
func flattenBase(obs Record) (Record, error) {
	rawFeature, ok := asRecord(obs["featureOfInterest"])
	if !ok {
		return nil, missing("featureOfInterest")
	}
	feature, err := ParseFeature(rawFeature)
	if err != nil {
		return nil, err
	}

	row := obs.Clone()
	for k, v := range feature.Flat() {
		row[k] = v
	}
	delete(row, "featureOfInterest")
	delete(row, "phenomenonTime")
	return row, nil
}

// FlattenSingle flattens a scalar-shape observation into one row whose
// result is result.value and whose uom is result.uom.
func FlattenSingle(obs Record) (Record, error) {
	row, err := flattenBase(obs)
	if err != nil {
		return nil, err
	}
	res, err := decodeScalar(obs["result"])
	if err != nil {
		return nil, err
	}
	row["result"] = res.Value
	row["uom"] = res.UOM
	return row, nil
}

// FlattenBulk flattens a bulk-shape observation into one row per
// [resultTime, result] pair. All rows share every other field.
func FlattenBulk(obs Record) ([]Record, error) {
	shared, err := flattenBase(obs)
	if err != nil {
		return nil, err
	}
	res, err := decodeBulk(obs["result"])
	if err != nil {
		return nil, err
	}
	delete(shared, "result")
	shared["uom"] = res.UOM

	rows := make([]Record, 0, len(res.Values))
	for _, tv := range res.Values {
		row := shared.Clone()
		row["resultTime"] = tv.Time
		row["result"] = tv.Value
		rows = append(rows, row)
	}
	return rows, nil
}
