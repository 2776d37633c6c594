package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "fitnotes"
  user: "fitnotes"
  password: "secret"
  sslmode: "disable"
auth:
  api_key: "test-key-123"
tracking:
  timezone: "Europe/Berlin"
  weight_unit: "kg"
  decline_tolerance: 0.1
  rest_seconds: 120
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all
// fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "fitnotes" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "fitnotes")
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}
	if cfg.Tracking.Timezone != "Europe/Berlin" {
		t.Errorf("tracking.timezone = %q, want %q", cfg.Tracking.Timezone, "Europe/Berlin")
	}
	if cfg.Tracking.RestSeconds != 120 {
		t.Errorf("tracking.rest_seconds = %d, want 120", cfg.Tracking.RestSeconds)
	}
}

// TestEnvOverride verifies that FITNOTES_ env vars take precedence over
// YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("FITNOTES_DB_HOST", "override-host")
	t.Setenv("FITNOTES_DB_PORT", "9999")
	t.Setenv("FITNOTES_WEIGHT_UNIT", "lb")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "override-host" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "override-host")
	}
	if cfg.Database.Port != 9999 {
		t.Errorf("database.port = %d, want 9999", cfg.Database.Port)
	}
	if cfg.Tracking.WeightUnit != "lb" {
		t.Errorf("tracking.weight_unit = %q, want %q", cfg.Tracking.WeightUnit, "lb")
	}
	// Unchanged fields keep YAML values.
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
}

// TestTrackingDefaults verifies the domain knobs default sensibly when
// omitted.
func TestTrackingDefaults(t *testing.T) {
	const minimal = `
server:
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "fitnotes"
  user: "fitnotes"
auth:
  api_key: "k"
`
	cfg, err := Load(writeTemp(t, minimal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tracking.WeightUnit != "kg" {
		t.Errorf("weight_unit default = %q, want kg", cfg.Tracking.WeightUnit)
	}
	if cfg.Tracking.DeclineTolerance != 0.10 {
		t.Errorf("decline_tolerance default = %v, want 0.10", cfg.Tracking.DeclineTolerance)
	}
	if cfg.Tracking.RestSeconds != 90 {
		t.Errorf("rest_seconds default = %d, want 90", cfg.Tracking.RestSeconds)
	}
	loc, err := cfg.Tracking.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("timezone default = %v (%v), want UTC", loc, err)
	}
}

// TestValidationRejectsBadUnit verifies unit validation fails fast instead
// of propagating a bogus unit into presentation.
func TestValidationRejectsBadUnit(t *testing.T) {
	t.Setenv("FITNOTES_WEIGHT_UNIT", "stone")
	if _, err := Load(writeTemp(t, validYAML)); err == nil {
		t.Fatal("expected validation error for weight_unit=stone")
	}
}

// TestValidationRequiresAPIKey verifies missing auth fails load.
func TestValidationRequiresAPIKey(t *testing.T) {
	const noKey = `
server:
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "fitnotes"
  user: "fitnotes"
`
	if _, err := Load(writeTemp(t, noKey)); err == nil {
		t.Fatal("expected validation error for missing api_key")
	}
}
