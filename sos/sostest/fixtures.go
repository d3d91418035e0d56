package sostest

const CapabilitiesJSON = `{
	"version": "2.0.0",
	"sections": {
		"serviceIdentification": {"title": "Hydrology SOS", "serviceType": "OGC:SOS"},
		"contents": {"offering": [{"identifier": "Stage_Gauge"}]}
	}
}`

const DataAvailabilityJSON = `{
	"dataAvailability": [
		{
			"featureOfInterest": {"href": "66401", "title": "Rakaia at Fighting Hill"},
			"procedure": {"href": "Stage_Gauge"},
			"observedProperty": {"href": "Water Level"},
			"phenomenonTime": ["2010-01-01T00:00:00.000Z", "2021-06-30T00:00:00.000Z"]
		},
		{
			"featureOfInterest": {"href": "66401"},
			"procedure": {"href": "Flow_Rating"},
			"observedProperty": {"href": "Flow"},
			"phenomenonTime": ["2012-01-01T00:00:00.000Z", "2019-06-30T00:00:00.000Z"]
		},
		{
			"featureOfInterest": {"href": "66402"},
			"procedure": {"href": "Stage_Gauge"},
			"observedProperty": {"href": "Water Level"},
			"phenomenonTime": ["2005-03-01T00:00:00.000Z", "2020-12-31T00:00:00.000Z"]
		},
		{
			"featureOfInterest": {"href": "R1"},
			"procedure": {"href": "Rain_Gauge"},
			"observedProperty": {"href": "Rainfall"},
			"phenomenonTime": ["2000-01-01T00:00:00.000Z", "2018-01-01T00:00:00.000Z"]
		}
	]
}`

const FeaturesJSON = `{
	"featureOfInterest": [
		{"identifier": {"value": "66401"}, "name": {"value": "Rakaia at Fighting Hill"}, "geometry": {"type": "Point", "coordinates": [-43.4, 171.9]}},
		{"identifier": "66402", "geometry": {"type": "Point", "coordinates": [-43.5, 172.0]}},
		{"identifier": {"value": "R1"}, "geometry": {"type": "Point", "coordinates": [-43.1, 172.1]}}
	]
}`

const ScalarObservationsJSON = `{
	"observations": [
		{
			"procedure": "Stage_Gauge",
			"observedProperty": "Water Level",
			"featureOfInterest": {"identifier": {"value": "66401"}, "geometry": {"coordinates": [-43.4, 171.9]}},
			"phenomenonTime": "2019-04-01T00:00:00.000Z",
			"resultTime": "2019-04-01T00:00:00.000Z",
			"result": {"uom": "mm", "value": 1520.5}
		},
		{
			"procedure": "Stage_Gauge",
			"observedProperty": "Water Level",
			"featureOfInterest": {"identifier": {"value": "66401"}, "geometry": {"coordinates": [-43.4, 171.9]}},
			"phenomenonTime": "2019-04-01T00:15:00.000Z",
			"resultTime": "2019-04-01T00:15:00.000Z",
			"result": {"uom": "mm", "value": 1522}
		}
	]
}`

const BulkObservationsJSON = `{
	"observations": [
		{
			"procedure": "Rain_Gauge",
			"observedProperty": "Rainfall",
			"featureOfInterest": {"identifier": {"value": "R1"}, "geometry": {"coordinates": [-43.1, 172.1]}},
			"phenomenonTime": ["2017-12-31T22:00:00.000Z", "2018-01-01T00:00:00.000Z"],
			"result": {
				"fields": [{"name": "phenomenonTime", "type": "time"}, {"name": "Rainfall", "type": "quantity", "uom": "mm"}],
				"values": [["2017-12-31T22:00:00.000Z", 0.5], ["2017-12-31T23:00:00.000Z", 1.5], ["2018-01-01T00:00:00.000Z", 0]]
			}
		}
	]
}`

const EmptyObservationsJSON = `{"observations": []}`
