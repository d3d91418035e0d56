package sos

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeaturesGeoJSON renders features as a GeoJSON feature collection of
// points. GeoJSON orders positions [lon, lat].
func FeaturesGeoJSON(features []FeatureOfInterest) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		gf := geojson.NewFeature(orb.Point{f.Lon, f.Lat})
		gf.ID = f.Identifier
		for k, v := range f.Attributes {
			gf.Properties[k] = v
		}
		gf.Properties["identifier"] = f.Identifier
		fc.Append(gf)
	}
	return fc
}
