package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantErr  bool
		validate func(t *testing.T, cfg Config)
	}{
		{
			name: "defaults",
			env:  map[string]string{"SOS_URL": "http://sos.example.com/service"},
			validate: func(t *testing.T, cfg Config) {
				if cfg.ListenAddr() != ":8080" || cfg.DefaultLimit != 200 || cfg.DefaultDays != 7 {
					t.Errorf("unexpected defaults %+v", cfg)
				}
				if cfg.DatabaseURL != "" || cfg.RequestTimeout != 30*time.Second {
					t.Errorf("unexpected defaults %+v", cfg)
				}
			},
		},
		{
			name: "api port fallback",
			env:  map[string]string{"SOS_URL": "http://sos.example.com/service", "API_PORT": "9090"},
			validate: func(t *testing.T, cfg Config) {
				if cfg.Port != 9090 {
					t.Errorf("Port = %d, want 9090", cfg.Port)
				}
			},
		},
		{
			name:    "missing sos url",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:    "bad port",
			env:     map[string]string{"SOS_URL": "http://sos.example.com/service", "PORT": "-1"},
			wantErr: true,
		},
		{
			name:    "bad timeout",
			env:     map[string]string{"SOS_URL": "http://sos.example.com/service", "SOS_REQUEST_TIMEOUT": "soon"},
			wantErr: true,
		},
	}

	keys := []string{
		"SOS_URL", "SOS_TOKEN", "DATABASE_URL", "PORT", "API_PORT", "API_DEFAULT_LIMIT",
		"API_DEFAULT_DAYS", "SOS_REQUEST_TIMEOUT", "API_BEARER_TOKEN", "LOG_LEVEL",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range keys {
				t.Setenv(k, tt.env[k])
			}

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error = %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}
