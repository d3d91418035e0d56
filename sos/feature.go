package sos

// FeatureOfInterest is the spatial entity an observation is about,
// normalized from its SOS JSON encoding.
type FeatureOfInterest struct {
	Identifier string
	Lat        float64
	Lon        float64
	// Attributes holds every other key of the raw feature unchanged.
	Attributes Record
}

// ParseFeature normalizes a raw feature-of-interest record. The identifier
// may be a plain string or a {"value": ...} wrapper; geometry.coordinates is
// read positionally as [lat, lon] and the geometry itself is dropped.
func ParseFeature(raw Record) (FeatureOfInterest, error) {
	idRaw, ok := raw["identifier"]
	if !ok {
		return FeatureOfInterest{}, missing("identifier")
	}
	id, ok := unwrapText(idRaw, "value")
	if !ok {
		return FeatureOfInterest{}, missing("identifier.value")
	}

	geom, ok := asRecord(raw["geometry"])
	if !ok {
		return FeatureOfInterest{}, missing("geometry")
	}
	coords, ok := asSlice(geom["coordinates"])
	if !ok {
		return FeatureOfInterest{}, missing("geometry.coordinates")
	}
	if len(coords) < 2 {
		return FeatureOfInterest{}, missing("geometry.coordinates[1]")
	}
	lat, ok := asFloat(coords[0])
	if !ok {
		return FeatureOfInterest{}, missing("geometry.coordinates[0]")
	}
	lon, ok := asFloat(coords[1])
	if !ok {
		return FeatureOfInterest{}, missing("geometry.coordinates[1]")
	}

	attrs := raw.Clone()
	delete(attrs, "identifier")
	delete(attrs, "geometry")

	return FeatureOfInterest{
		Identifier: id,
		Lat:        lat,
		Lon:        lon,
		Attributes: attrs,
	}, nil
}

// Flat returns the feature as a flat record: its attributes plus
// identifier, lat and lon.
func (f FeatureOfInterest) Flat() Record {
	out := make(Record, len(f.Attributes)+3)
	for k, v := range f.Attributes {
		out[k] = v
	}
	out["identifier"] = f.Identifier
	out["lat"] = f.Lat
	out["lon"] = f.Lon
	return out
}
