package sos

import (
	"errors"
	"testing"
)

func TestParseFeature(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		validate func(*testing.T, FeatureOfInterest)
	}{
		{
			name:  "wrapped identifier",
			input: `{"identifier": {"value": "X"}, "geometry": {"coordinates": [1.0, 2.0]}}`,
			validate: func(t *testing.T, f FeatureOfInterest) {
				flat := f.Flat()
				if len(flat) != 3 {
					t.Errorf("Flat() = %v, want exactly identifier, lat and lon", flat)
				}
				if flat["identifier"] != "X" || flat["lat"] != 1.0 || flat["lon"] != 2.0 {
					t.Errorf("Flat() = %v", flat)
				}
				if _, ok := flat["geometry"]; ok {
					t.Error("geometry key should be removed")
				}
			},
		},
		{
			name:  "plain identifier",
			input: `{"identifier": "X", "geometry": {"coordinates": [1.0, 2.0]}}`,
			validate: func(t *testing.T, f FeatureOfInterest) {
				if f.Identifier != "X" || f.Lat != 1.0 || f.Lon != 2.0 {
					t.Errorf("got %+v", f)
				}
			},
		},
		{
			name:  "other fields pass through",
			input: `{"identifier": "X", "name": {"value": "Site X"}, "sampledFeature": "urn:x", "geometry": {"type": "Point", "coordinates": [1.0, 2.0, 30.0]}}`,
			validate: func(t *testing.T, f FeatureOfInterest) {
				flat := f.Flat()
				if flat["sampledFeature"] != "urn:x" {
					t.Errorf("sampledFeature = %v", flat["sampledFeature"])
				}
				name, ok := flat["name"].(map[string]any)
				if !ok || name["value"] != "Site X" {
					t.Errorf("name = %v", flat["name"])
				}
			},
		},
		{name: "missing identifier", input: `{"geometry": {"coordinates": [1.0, 2.0]}}`, wantErr: true},
		{name: "wrapped identifier without value", input: `{"identifier": {"codespace": "x"}, "geometry": {"coordinates": [1.0, 2.0]}}`, wantErr: true},
		{name: "missing geometry", input: `{"identifier": "X"}`, wantErr: true},
		{name: "missing coordinates", input: `{"identifier": "X", "geometry": {"type": "Point"}}`, wantErr: true},
		{name: "single coordinate", input: `{"identifier": "X", "geometry": {"coordinates": [1.0]}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFeature(mustRecord(t, tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFeature() expected error, got %+v", got)
				}
				if !errors.Is(err, ErrMissingField) {
					t.Errorf("ParseFeature() error = %v, want ErrMissingField", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFeature() unexpected error = %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, got)
			}
		})
	}
}

func TestParseFeature_DoesNotMutateInput(t *testing.T) {
	raw := mustRecord(t, `{"identifier": {"value": "X"}, "geometry": {"coordinates": [1.0, 2.0]}}`)

	if _, err := ParseFeature(raw); err != nil {
		t.Fatalf("ParseFeature() unexpected error = %v", err)
	}

	if _, ok := raw["geometry"]; !ok {
		t.Error("input geometry was removed")
	}
	if _, ok := raw["identifier"].(map[string]any); !ok {
		t.Errorf("input identifier was unwrapped: %v", raw["identifier"])
	}
}
