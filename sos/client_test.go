package sos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/02loveslollipop/thinsos/sos/sostest"
)

const allSections = "ServiceIdentification,ServiceProvider,OperationsMetadata,FilterCapabilities,Contents"

func newTestClient(t *testing.T) (*Client, *sostest.Server) {
	t.Helper()
	srv := sostest.NewServer()
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), srv.URL, "secret",
		WithHTTPClient(srv.Client()),
		WithLogger(zerolog.Nop()),
	)
	if err != nil {
		t.Fatalf("NewClient() unexpected error = %v", err)
	}
	return c, srv
}

func TestNewClient(t *testing.T) {
	c, srv := newTestClient(t)

	reqs := srv.Requests()
	if len(reqs) != 2 {
		t.Fatalf("construction issued %d requests, want 2", len(reqs))
	}
	if want := "service=SOS&version=2.0.0&request=GetCapabilities&sections=" + allSections; reqs[0].RawQuery != want {
		t.Errorf("capabilities query = %q, want %q", reqs[0].RawQuery, want)
	}
	if want := "service=SOS&version=2.0.0&request=GetDataAvailability"; reqs[1].RawQuery != want {
		t.Errorf("availability query = %q, want %q", reqs[1].RawQuery, want)
	}
	for _, r := range reqs {
		if got := r.Header.Get("Authorization"); got != "secret" {
			t.Errorf("Authorization = %q, want secret", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
	}

	if c.Capabilities()["version"] != "2.0.0" {
		t.Errorf("Capabilities() = %v", c.Capabilities())
	}
	if n := len(c.DataAvailability()); n != 4 {
		t.Errorf("DataAvailability() has %d entries, want 4", n)
	}
	if got := c.DataAvailability()[0].Extra["title"]; got != nil {
		t.Errorf("href wrapper leaked into Extra: %v", got)
	}
}

func TestNewClient_TransportFailure(t *testing.T) {
	srv := sostest.NewServer()
	defer srv.Close()
	srv.SetStatus(http.StatusInternalServerError, "boom")

	_, err := NewClient(context.Background(), srv.URL, "secret",
		WithHTTPClient(srv.Client()),
		WithLogger(zerolog.Nop()),
	)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("NewClient() error = %v, want *TransportError", err)
	}
	if te.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", te.StatusCode)
	}
	if string(te.Body) != "boom" {
		t.Errorf("Body = %q, want boom", te.Body)
	}
}

func TestClient_GetCapabilities(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		level     Level
		wantQuery string
	}{
		{LevelService, "service=SOS&version=2.0.0&request=GetCapabilities&sections=ServiceIdentification,ServiceProvider"},
		{LevelContent, "service=SOS&version=2.0.0&request=GetCapabilities&sections=Contents"},
		{LevelOperations, "service=SOS&version=2.0.0&request=GetCapabilities&sections=OperationsMetadata"},
		{LevelAll, "service=SOS&version=2.0.0&request=GetCapabilities&sections=" + allSections},
		{LevelMinimal, "service=SOS&version=2.0.0&request=GetCapabilities"},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			doc, err := c.GetCapabilities(ctx, tt.level)
			if err != nil {
				t.Fatalf("GetCapabilities() unexpected error = %v", err)
			}
			if doc == nil {
				t.Fatal("GetCapabilities() returned nil document")
			}
			if got := srv.Last().RawQuery; got != tt.wantQuery {
				t.Errorf("query = %q, want %q", got, tt.wantQuery)
			}
		})
	}
}

func TestClient_GetCapabilities_InvalidLevel(t *testing.T) {
	c, srv := newTestClient(t)
	before := len(srv.Requests())

	doc, err := c.GetCapabilities(context.Background(), Level("everything"))
	if err != nil || doc != nil {
		t.Errorf("GetCapabilities() = %v, %v, want nil, nil", doc, err)
	}
	if len(srv.Requests()) != before {
		t.Error("invalid level issued a request")
	}
}

func TestClient_GetDataAvailability(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	t.Run("filtered", func(t *testing.T) {
		if _, err := c.GetDataAvailability(ctx, AvailabilityQuery{FeatureOfInterest: "66401", Procedure: "Stage_Gauge"}); err != nil {
			t.Fatalf("GetDataAvailability() unexpected error = %v", err)
		}
		want := "service=SOS&version=2.0.0&featureOfInterest=66401&procedure=Stage_Gauge&request=GetDataAvailability"
		if got := srv.Last().RawQuery; got != want {
			t.Errorf("query = %q, want %q", got, want)
		}
	})

	t.Run("unknown feature is rejected locally", func(t *testing.T) {
		before := len(srv.Requests())
		_, err := c.GetDataAvailability(ctx, AvailabilityQuery{FeatureOfInterest: "99999"})
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "foi" {
			t.Fatalf("GetDataAvailability() error = %v, want foi ValidationError", err)
		}
		if len(srv.Requests()) != before {
			t.Error("rejected query reached the service")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		srv.SetDataAvailability(`{"other": []}`)
		_, err := c.GetDataAvailability(ctx, AvailabilityQuery{})
		if !errors.Is(err, ErrMissingField) {
			t.Errorf("GetDataAvailability() error = %v, want ErrMissingField", err)
		}
	})
}

func TestClient_GetFeatureOfInterest(t *testing.T) {
	c, srv := newTestClient(t)

	table, err := c.GetFeatureOfInterest(context.Background(), "")
	if err != nil {
		t.Fatalf("GetFeatureOfInterest() unexpected error = %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("GetFeatureOfInterest() returned %d rows, want 3", table.Len())
	}
	if table.HasColumn("geometry") {
		t.Error("geometry column present")
	}
	first := table.Row(0)
	if first["identifier"] != "66401" || first["lat"] != -43.4 || first["lon"] != 171.9 {
		t.Errorf("row 0 = %v", first)
	}

	if _, err := c.GetFeatureOfInterest(context.Background(), "66402"); err != nil {
		t.Fatalf("GetFeatureOfInterest(66402) unexpected error = %v", err)
	}
	if want := "service=SOS&version=2.0.0&featureOfInterest=66402&request=GetFeatureOfInterest"; srv.Last().RawQuery != want {
		t.Errorf("query = %q, want %q", srv.Last().RawQuery, want)
	}
}

func TestClient_GetObservation(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	table, err := c.GetObservation(ctx, FilterQuery{FeatureOfInterest: "66401", ObservedProperty: "Water Level"})
	if err != nil {
		t.Fatalf("GetObservation() unexpected error = %v", err)
	}

	want := "service=SOS&version=2.0.0&featureOfInterest=66401&observedProperty=Water%20Level" +
		"&temporalFilter=om:phenomenonTime,1900-01-01T00:00:00Z/2020-12-31T00:00:00Z&request=GetObservation"
	if got := srv.Last().RawQuery; got != want {
		t.Errorf("query =\n%q\nwant\n%q", got, want)
	}

	if table.Len() != 2 {
		t.Fatalf("GetObservation() returned %d rows, want 2", table.Len())
	}
	for _, col := range []string{"identifier", "lat", "lon", "resultTime", "result", "uom"} {
		if !table.HasColumn(col) {
			t.Errorf("column %s missing", col)
		}
	}
	if _, ok := table.Row(0)["resultTime"].(time.Time); !ok {
		t.Errorf("resultTime = %T, want time.Time", table.Row(0)["resultTime"])
	}
}

func TestClient_GetObservation_Bulk(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SetObservations("R1", sostest.BulkObservationsJSON)

	table, err := c.GetObservation(context.Background(), FilterQuery{
		FeatureOfInterest: "R1",
		ObservedProperty:  "Rainfall",
		FromDate:          "2017-12-31",
		ToDate:            "2018-01-01",
	})
	if err != nil {
		t.Fatalf("GetObservation() unexpected error = %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("GetObservation() returned %d rows, want 3", table.Len())
	}
	for i, r := range table.Rows() {
		if r["uom"] != "mm" || r["identifier"] != "R1" {
			t.Errorf("row %d = %v", i, r)
		}
	}
}

func TestClient_GetObservation_Errors(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		query   FilterQuery
		doc     string
		wantErr error
	}{
		{"missing foi", FilterQuery{ObservedProperty: "Water Level"}, "", ErrMissingArgument},
		{"missing property", FilterQuery{FeatureOfInterest: "66401"}, "", ErrMissingArgument},
		{"unknown property", FilterQuery{FeatureOfInterest: "66401", ObservedProperty: "Turbidity"}, "", ErrNotAvailable},
		{"invalid date", FilterQuery{FeatureOfInterest: "66401", ObservedProperty: "Flow", ToDate: "later"}, "", ErrInvalidTimestamp},
		{"not json", FilterQuery{FeatureOfInterest: "66401", ObservedProperty: "Flow"}, "<html>", ErrDecode},
		{"no observations key", FilterQuery{FeatureOfInterest: "66401", ObservedProperty: "Flow"}, `{}`, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.doc != "" {
				srv.SetObservations("", tt.doc)
			}
			_, err := c.GetObservation(ctx, tt.query)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("GetObservation() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_GetObservation_Empty(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SetObservations("", sostest.EmptyObservationsJSON)

	table, err := c.GetObservation(context.Background(), FilterQuery{FeatureOfInterest: "66402", ObservedProperty: "Water Level"})
	if err != nil {
		t.Fatalf("GetObservation() unexpected error = %v", err)
	}
	if !table.Empty() {
		t.Errorf("GetObservation() returned %d rows, want 0", table.Len())
	}
}

func TestClient_SoftFailure(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SetStatus(http.StatusBadGateway, `{"error":"upstream"}`)

	_, err := c.GetFeatureOfInterest(context.Background(), "")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("GetFeatureOfInterest() error = %v, want *TransportError", err)
	}
	if !strings.Contains(te.URL, "request=GetFeatureOfInterest") {
		t.Errorf("URL = %q", te.URL)
	}
	if te.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", te.StatusCode)
	}
}

func TestFeaturesGeoJSON(t *testing.T) {
	c, _ := newTestClient(t)

	features, err := c.GetFeatures(context.Background(), "")
	if err != nil {
		t.Fatalf("GetFeatures() unexpected error = %v", err)
	}

	b, err := json.Marshal(FeaturesGeoJSON(features))
	if err != nil {
		t.Fatalf("Marshal() unexpected error = %v", err)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		t.Fatalf("Unmarshal() unexpected error = %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 3 {
		t.Fatalf("collection = %s", b)
	}
	f := fc.Features[0]
	if f.ID != "66401" || f.Properties["identifier"] != "66401" {
		t.Errorf("feature 0 = %+v", f)
	}
	if len(f.Geometry.Coordinates) != 2 || f.Geometry.Coordinates[0] != 171.9 || f.Geometry.Coordinates[1] != -43.4 {
		t.Errorf("coordinates = %v, want [171.9 -43.4]", f.Geometry.Coordinates)
	}
}
