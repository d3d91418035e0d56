package sos

import (
	"fmt"
	"sort"
	"time"
)

// AvailabilityEntry is one (feature, procedure, observed property) series
// the service holds data for, with its validity window.
type AvailabilityEntry struct {
	FeatureOfInterest string
	Procedure         string
	ObservedProperty  string
	FromDate          time.Time
	ToDate            time.Time
	// Extra holds any other keys of the raw entry.
	Extra Record
}

// Availability is the data-availability index of a service.
type Availability []AvailabilityEntry

// parseAvailability decodes the dataAvailability array of a
// GetDataAvailability response.
func parseAvailability(raw []any) (Availability, error) {
	out := make(Availability, 0, len(raw))
	for i, item := range raw {
		r, ok := asRecord(item)
		if !ok {
			continue
		}
		entry, err := parseAvailabilityEntry(r)
		if err != nil {
			return nil, fmt.Errorf("dataAvailability %d: %w", i, err)
		}
		out = append(out, entry)
	}
	return out, nil
}

func parseAvailabilityEntry(r Record) (AvailabilityEntry, error) {
	var e AvailabilityEntry
	var ok bool
	if e.FeatureOfInterest, ok = unwrapText(r["featureOfInterest"], "href", "value"); !ok {
		return e, missing("featureOfInterest")
	}
	if e.Procedure, ok = unwrapText(r["procedure"], "href", "value"); !ok {
		return e, missing("procedure")
	}
	if e.ObservedProperty, ok = unwrapText(r["observedProperty"], "href", "value"); !ok {
		return e, missing("observedProperty")
	}

	window, ok := asSlice(r["phenomenonTime"])
	if !ok || len(window) < 2 {
		return e, missing("phenomenonTime")
	}
	from, ok := window[0].(string)
	if !ok {
		return e, fmt.Errorf("phenomenonTime[0]: %w: %v", ErrInvalidTimestamp, window[0])
	}
	to, ok := window[1].(string)
	if !ok {
		return e, fmt.Errorf("phenomenonTime[1]: %w: %v", ErrInvalidTimestamp, window[1])
	}
	var err error
	if e.FromDate, err = ParseTimestamp(from); err != nil {
		return e, err
	}
	if e.ToDate, err = ParseTimestamp(to); err != nil {
		return e, err
	}

	e.Extra = r.Clone()
	for _, k := range []string{"featureOfInterest", "procedure", "observedProperty", "phenomenonTime"} {
		delete(e.Extra, k)
	}
	return e, nil
}

// Where returns the entries accepted by keep.
func (a Availability) Where(keep func(AvailabilityEntry) bool) Availability {
	out := make(Availability, 0, len(a))
	for _, e := range a {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// WithFeature narrows to one feature of interest.
func (a Availability) WithFeature(foi string) Availability {
	return a.Where(func(e AvailabilityEntry) bool { return e.FeatureOfInterest == foi })
}

// WithProcedure narrows to one procedure.
func (a Availability) WithProcedure(procedure string) Availability {
	return a.Where(func(e AvailabilityEntry) bool { return e.Procedure == procedure })
}

// WithObservedProperty narrows to one observed property.
func (a Availability) WithObservedProperty(property string) Availability {
	return a.Where(func(e AvailabilityEntry) bool { return e.ObservedProperty == property })
}

// MinFromDate returns the earliest start of the entries.
func (a Availability) MinFromDate() (time.Time, bool) {
	return a.minTime(func(e AvailabilityEntry) time.Time { return e.FromDate })
}

// MinToDate returns the earliest end of the entries.
func (a Availability) MinToDate() (time.Time, bool) {
	return a.minTime(func(e AvailabilityEntry) time.Time { return e.ToDate })
}

func (a Availability) minTime(get func(AvailabilityEntry) time.Time) (time.Time, bool) {
	if len(a) == 0 {
		return time.Time{}, false
	}
	earliest := get(a[0])
	for _, e := range a[1:] {
		if t := get(e); t.Before(earliest) {
			earliest = t
		}
	}
	return earliest, true
}

// Features returns the distinct feature identifiers, sorted.
func (a Availability) Features() []string {
	return distinct(a, func(e AvailabilityEntry) string { return e.FeatureOfInterest })
}

// Procedures returns the distinct procedures, sorted.
func (a Availability) Procedures() []string {
	return distinct(a, func(e AvailabilityEntry) string { return e.Procedure })
}

// ObservedProperties returns the distinct observed properties, sorted.
func (a Availability) ObservedProperties() []string {
	return distinct(a, func(e AvailabilityEntry) string { return e.ObservedProperty })
}

func distinct(a Availability, get func(AvailabilityEntry) string) []string {
	seen := make(map[string]struct{}, len(a))
	out := make([]string, 0)
	for _, e := range a {
		v := get(e)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Table renders the index as a table with fromDate/toDate columns.
func (a Availability) Table() *Table {
	rows := make([]Record, 0, len(a))
	for _, e := range a {
		r := e.Extra.Clone()
		r["featureOfInterest"] = e.FeatureOfInterest
		r["procedure"] = e.Procedure
		r["observedProperty"] = e.ObservedProperty
		r["fromDate"] = e.FromDate
		r["toDate"] = e.ToDate
		rows = append(rows, r)
	}
	return NewTable(rows)
}
