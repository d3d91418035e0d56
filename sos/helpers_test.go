package sos

import (
	"encoding/json"
	"testing"
)

func mustRecord(t *testing.T, s string) Record {
	t.Helper()
	var r Record
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		t.Fatalf("invalid fixture %s: %v", s, err)
	}
	return r
}

func mustList(t *testing.T, s string) []any {
	t.Helper()
	var l []any
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		t.Fatalf("invalid fixture %s: %v", s, err)
	}
	return l
}

const scalarObservations = `[
	{
		"procedure": "Stage_Gauge",
		"observedProperty": "Water Level",
		"featureOfInterest": {"identifier": {"value": "66401"}, "name": {"value": "Rakaia at Fighting Hill"}, "geometry": {"type": "Point", "coordinates": [-43.4, 171.9]}},
		"phenomenonTime": "2019-04-01T00:00:00.000Z",
		"resultTime": "2019-04-01T00:00:00.000Z",
		"result": {"uom": "mm", "value": 1520.5}
	},
	{
		"procedure": "Stage_Gauge",
		"observedProperty": "Water Level",
		"featureOfInterest": {"identifier": {"value": "66401"}, "name": {"value": "Rakaia at Fighting Hill"}, "geometry": {"type": "Point", "coordinates": [-43.4, 171.9]}},
		"phenomenonTime": "2019-04-01T00:15:00.000Z",
		"resultTime": "2019-04-01T00:15:00.000+12:00",
		"result": {"uom": "m", "value": 1.52}
	},
	{
		"procedure": "Stage_Gauge",
		"observedProperty": "Water Level",
		"featureOfInterest": {"identifier": "66402", "geometry": {"coordinates": [-43.5, 172.0]}},
		"phenomenonTime": "2019-04-01T00:30:00.000Z",
		"resultTime": "2019-04-01T00:30:00",
		"result": {"uom": "mm", "value": 1490}
	}
]`

const bulkObservations = `[
	{
		"procedure": "Rain_Gauge",
		"observedProperty": "Rainfall",
		"featureOfInterest": {"identifier": {"value": "R1"}, "geometry": {"coordinates": [-43.1, 172.1]}},
		"phenomenonTime": ["2019-01-01T00:00:00.000Z", "2019-01-01T02:00:00.000Z"],
		"result": {
			"fields": [{"name": "phenomenonTime", "type": "time"}, {"name": "Rainfall", "type": "quantity", "uom": "mm"}],
			"values": [["2019-01-01T00:00:00.000Z", 0.5], ["2019-01-01T01:00:00.000Z", 1.5], ["2019-01-01T02:00:00.000Z", 0]]
		}
	},
	{
		"procedure": "Rain_Gauge",
		"observedProperty": "Rainfall",
		"featureOfInterest": {"identifier": {"value": "R2"}, "geometry": {"coordinates": [-43.2, 172.2]}},
		"phenomenonTime": ["2019-01-01T00:00:00.000Z", "2019-01-01T01:00:00.000Z"],
		"result": {
			"fields": [{"name": "phenomenonTime", "type": "time"}, {"name": "Rainfall", "type": "quantity", "uom": "mm"}],
			"values": [["2019-01-01T00:00:00.000Z", 2.0], ["2019-01-01T01:00:00.000Z", 4.0]]
		}
	}
]`
