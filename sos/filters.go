package sos

import "time"

// FilterQuery holds the optional filters of a request. Empty fields are
// not applied.
type FilterQuery struct {
	FeatureOfInterest string
	Procedure         string
	ObservedProperty  string
	FromDate          string
	ToDate            string
}

// IsZero reports whether no filter is set.
func (q FilterQuery) IsZero() bool {
	return q == FilterQuery{}
}

// BuildFilters validates q against the data-availability index and
// translates it into SOS query parameters.
//
// Each filter narrows a working subset of avail. The observed property is
// checked against the full index while the procedure is checked against
// the subset left by the previous filters. A missing date bound is taken
// from the working subset: the earliest fromDate or the earliest toDate.
func BuildFilters(avail Availability, q FilterQuery) (Params, error) {
	var params Params
	subset := avail

	if q.FeatureOfInterest != "" {
		subset = avail.WithFeature(q.FeatureOfInterest)
		if len(subset) == 0 {
			return Params{}, &ValidationError{Field: "foi", Value: q.FeatureOfInterest}
		}
		params.Set("featureOfInterest", q.FeatureOfInterest)
	}
	if q.ObservedProperty != "" {
		subset = avail.WithObservedProperty(q.ObservedProperty)
		if len(subset) == 0 {
			return Params{}, &ValidationError{Field: "observedProperty", Value: q.ObservedProperty}
		}
		params.Set("observedProperty", q.ObservedProperty)
	}
	if q.Procedure != "" {
		subset = subset.WithProcedure(q.Procedure)
		if len(subset) == 0 {
			return Params{}, &ValidationError{Field: "procedure", Value: q.Procedure}
		}
		params.Set("procedure", q.Procedure)
	}

	if q.FromDate != "" || q.ToDate != "" {
		from, err := resolveBound(q.FromDate, "fromDate", subset.MinFromDate)
		if err != nil {
			return Params{}, err
		}
		to, err := resolveBound(q.ToDate, "toDate", subset.MinToDate)
		if err != nil {
			return Params{}, err
		}
		params.Set("temporalFilter", "om:phenomenonTime,"+FormatFilterTime(from)+"/"+FormatFilterTime(to))
	}

	return params, nil
}

func resolveBound(given, field string, fallback func() (time.Time, bool)) (time.Time, error) {
	if given != "" {
		return ParseTimestamp(given)
	}
	t, ok := fallback()
	if !ok {
		return time.Time{}, &ValidationError{
			Field: field,
			Msg:   field + " cannot be resolved: no data availability",
		}
	}
	return t, nil
}
