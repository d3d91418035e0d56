package utils

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/02loveslollipop/thinsos/services/watcher/internal/models"
	"github.com/02loveslollipop/thinsos/sos"
)

// BuildFeatureRows converts features of interest into database-ready rows.
func BuildFeatureRows(features []sos.FeatureOfInterest) []models.FeatureRow {
	rows := make([]models.FeatureRow, 0, len(features))
	for _, f := range features {
		metadata := map[string]any{}
		for k, v := range f.Attributes {
			metadata[k] = v
		}
		name, _ := textValue(f.Attributes["name"])
		rows = append(rows, models.FeatureRow{
			ID:       f.Identifier,
			Name:     name,
			Lat:      f.Lat,
			Lon:      f.Lon,
			Metadata: metadata,
		})
	}
	return rows
}

// FeatureIDs extracts feature identifiers from feature rows.
func FeatureIDs(rows []models.FeatureRow) []string {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids
}

// SelectSeries lists the series of the availability index to harvest. Empty
// feature or property lists select everything.
func SelectSeries(avail sos.Availability, features, properties []string) []models.Series {
	featureSet := toSet(features)
	propertySet := toSet(properties)

	out := make([]models.Series, 0, len(avail))
	seen := make(map[models.SeriesKey]int, len(avail))
	for _, e := range avail {
		if len(featureSet) > 0 && !featureSet[e.FeatureOfInterest] {
			continue
		}
		if len(propertySet) > 0 && !propertySet[e.ObservedProperty] {
			continue
		}
		key := models.SeriesKey{
			FeatureID:        e.FeatureOfInterest,
			Procedure:        e.Procedure,
			ObservedProperty: e.ObservedProperty,
		}
		if i, ok := seen[key]; ok {
			if e.FromDate.Before(out[i].From) {
				out[i].From = e.FromDate
			}
			if e.ToDate.After(out[i].To) {
				out[i].To = e.ToDate
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, models.Series{Key: key, From: e.FromDate, To: e.ToDate})
	}
	return out
}

// SeriesFeatureIDs returns the distinct feature identifiers of series.
func SeriesFeatureIDs(series []models.Series) []string {
	set := make(map[string]bool, len(series))
	ids := make([]string, 0, len(series))
	for _, s := range series {
		if !set[s.Key.FeatureID] {
			set[s.Key.FeatureID] = true
			ids = append(ids, s.Key.FeatureID)
		}
	}
	return ids
}

// HarvestStart returns where to resume a series: the last stored time, or
// the lookback window clamped to the start of the series.
func HarvestStart(series models.Series, last models.LastObservation, hasLast bool, now time.Time, lookback time.Duration) time.Time {
	if hasLast {
		return last.TS
	}
	start := now.Add(-lookback)
	if series.From.After(start) {
		return series.From
	}
	return start
}

// BuildObservationCandidates normalizes a flattened observation table into
// candidates of one series, ordered by time.
func BuildObservationCandidates(key models.SeriesKey, table *sos.Table) ([]models.ObservationCandidate, error) {
	candidates := make([]models.ObservationCandidate, 0, table.Len())
	for i, row := range table.Rows() {
		ts, ok := row["resultTime"].(time.Time)
		if !ok {
			return nil, fmt.Errorf("row %d: resultTime is %T", i, row["resultTime"])
		}
		uom, _ := row["uom"].(string)
		candidates = append(candidates, models.ObservationCandidate{
			Series: key,
			TS:     ts.UTC(),
			Value:  NormalizeValue(row["result"]),
			UOM:    uom,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TS.Before(candidates[j].TS)
	})
	return candidates, nil
}

// NormalizeValue cleans raw result values; non-numeric, NaN and infinite
// values become nil.
func NormalizeValue(v any) *float64 {
	var f float64
	switch tv := v.(type) {
	case float64:
		f = tv
	case int:
		f = float64(tv)
	case int64:
		f = float64(tv)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(tv), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// FilterNewObservations selects candidates that should be inserted.
// Candidates at or before the last stored time of their series are dropped;
// within minInterval of the previous kept value only changed values pass.
func FilterNewObservations(
	candidates []models.ObservationCandidate,
	last map[models.SeriesKey]models.LastObservation,
	minInterval time.Duration,
	epsilon float64,
) []models.ObservationCandidate {
	prevs := make(map[models.SeriesKey]models.LastObservation, len(last))
	for k, v := range last {
		prevs[k] = v
	}

	out := make([]models.ObservationCandidate, 0, len(candidates))
	for _, cand := range candidates {
		prev, ok := prevs[cand.Series]
		switch {
		case !ok:
		case !cand.TS.After(prev.TS):
			continue
		case cand.TS.Sub(prev.TS) >= minInterval:
		case ValuesEqual(prev.Value, cand.Value, epsilon):
			continue
		}
		out = append(out, cand)
		prevs[cand.Series] = models.LastObservation{Value: cand.Value, TS: cand.TS}
	}
	return out
}

// ValuesEqual compares two optional float values with tolerance.
func ValuesEqual(a, b *float64, epsilon float64) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return math.Abs(*a-*b) <= epsilon
	}
}

// ValuePtrString prints pointer values for logging.
func ValuePtrString(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.3f", *v)
}

func textValue(v any) (string, bool) {
	switch tv := v.(type) {
	case string:
		return tv, true
	case map[string]any:
		return textValue(tv["value"])
	case sos.Record:
		return textValue(tv["value"])
	default:
		return "", false
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
