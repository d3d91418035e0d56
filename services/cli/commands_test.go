package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/02loveslollipop/thinsos/sos/sostest"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	srv := sostest.NewServer()
	defer srv.Close()

	tests := []struct {
		name        string
		args        []string
		errContains string
		validate    func(t *testing.T, out string)
	}{
		{
			name: "capabilities",
			args: []string{"capabilities", "--url", srv.URL, "--level", "content"},
			validate: func(t *testing.T, out string) {
				var doc map[string]any
				if err := json.Unmarshal([]byte(out), &doc); err != nil {
					t.Fatalf("output is not JSON: %v", err)
				}
				if doc["version"] != "2.0.0" {
					t.Errorf("doc = %v", doc)
				}
				if got := srv.Last().Query.Get("sections"); got != "Contents" {
					t.Errorf("sections = %q", got)
				}
			},
		},
		{
			name:        "invalid level",
			args:        []string{"capabilities", "--url", srv.URL, "--level", "everything"},
			errContains: "invalid level",
		},
		{
			name: "availability csv",
			args: []string{"availability", "--url", srv.URL, "--foi", "66401"},
			validate: func(t *testing.T, out string) {
				lines := strings.Split(strings.TrimSpace(out), "\n")
				if !strings.HasPrefix(lines[0], "featureOfInterest,procedure,observedProperty,fromDate,toDate") {
					t.Errorf("header = %q", lines[0])
				}
				if len(lines) != 5 {
					t.Errorf("got %d lines, want 5", len(lines))
				}
			},
		},
		{
			name:        "availability unknown feature",
			args:        []string{"availability", "--url", srv.URL, "--foi", "nowhere"},
			errContains: "foi does not exist",
		},
		{
			name: "features json",
			args: []string{"features", "--url", srv.URL, "--format", "json"},
			validate: func(t *testing.T, out string) {
				var rows []map[string]any
				if err := json.Unmarshal([]byte(out), &rows); err != nil {
					t.Fatalf("output is not a JSON array: %v", err)
				}
				if len(rows) != 3 || rows[0]["identifier"] != "66401" {
					t.Errorf("rows = %v", rows)
				}
			},
		},
		{
			name: "features geojson",
			args: []string{"features", "--url", srv.URL, "--geojson"},
			validate: func(t *testing.T, out string) {
				if !strings.Contains(out, `"FeatureCollection"`) {
					t.Errorf("output = %s", out)
				}
			},
		},
		{
			name: "observations",
			args: []string{"observations", "--url", srv.URL, "--foi", "66401", "--property", "Water Level", "--from", "2019-04-01"},
			validate: func(t *testing.T, out string) {
				lines := strings.Split(strings.TrimSpace(out), "\n")
				if len(lines) != 3 {
					t.Fatalf("got %d lines, want 3", len(lines))
				}
				if !strings.Contains(lines[1], "2019-04-01T00:00:00Z") || !strings.Contains(lines[1], "1520.5") {
					t.Errorf("row = %q", lines[1])
				}
			},
		},
		{
			name:        "observations missing property",
			args:        []string{"observations", "--url", srv.URL, "--foi", "66401"},
			errContains: "property",
		},
		{
			name:        "missing url",
			args:        []string{"features"},
			errContains: "missing SOS URL",
		},
		{
			name:        "bad format",
			args:        []string{"features", "--url", srv.URL, "--format", "xml"},
			errContains: "invalid format",
		},
	}

	t.Setenv("THINSOS_URL", "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error = %v, output %s", err, out)
			}
			tt.validate(t, out)
		})
	}
}

func TestEnvironmentURL(t *testing.T) {
	srv := sostest.NewServer()
	defer srv.Close()
	t.Setenv("THINSOS_URL", srv.URL)
	t.Setenv("THINSOS_TOKEN", "from-env")

	if _, err := execute(t, "features"); err != nil {
		t.Fatalf("unexpected error = %v", err)
	}
	if got := srv.Last().Header.Get("Authorization"); got != "from-env" {
		t.Errorf("Authorization = %q, want from-env", got)
	}
}
