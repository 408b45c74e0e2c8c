// Package config provides configuration management for the racing data
// aggregation and analysis engine.
package config

import (
	"os"
	"testing"
)

func TestLoadConfig_Success(t *testing.T) {
	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.App.Name != "raceintel" {
		t.Errorf("expected app name 'raceintel', got '%s'", cfg.App.Name)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("expected environment 'development', got '%s'", cfg.App.Environment)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("expected database host 'localhost', got '%s'", cfg.Database.Host)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("expected database port 5432, got %d", cfg.Database.Port)
	}

	if len(cfg.DataSources) != 2 {
		t.Fatalf("expected 2 data sources, got %d", len(cfg.DataSources))
	}
	if cfg.DataSources[0].Name != "RacingPost" || cfg.DataSources[0].Discipline != "Thoroughbred" {
		t.Errorf("unexpected first data source: %+v", cfg.DataSources[0])
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := Load("testdata/nonexistent_config.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadConfig_EnvironmentVariables(t *testing.T) {
	os.Setenv("RACEINTEL_APP_NAME", "test-app")
	defer os.Unsetenv("RACEINTEL_APP_NAME")

	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.Name != "test-app" {
		t.Errorf("expected app name 'test-app' from environment, got '%s'", cfg.App.Name)
	}
}

func TestValidate_Success(t *testing.T) {
	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

func TestValidate_InvalidEnvironment(t *testing.T) {
	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.App.Environment = "invalid"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

func TestValidate_InvalidDiscipline(t *testing.T) {
	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.DataSources[0].Discipline = "Camel"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid discipline")
	}
	if !containsSubstring(err.Error(), "discipline") && !containsSubstring(err.Error(), "Discipline") {
		t.Errorf("expected discipline validation error, got: %v", err)
	}
}

func TestValidate_ValidDisciplines(t *testing.T) {
	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	for _, d := range []string{"Thoroughbred", "Harness", "Greyhound", "QuarterHorse"} {
		cfg.DataSources[0].Discipline = d
		if err := Validate(cfg); err != nil {
			t.Fatalf("expected no error for discipline %q, got %v", d, err)
		}
	}
}

func TestValidate_MinRequiredAdaptersExceedsSources(t *testing.T) {
	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.Engine.MinRequiredAdapters = 99
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error when min_required_adapters exceeds configured sources")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load("testdata/valid_config.yaml")
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	dsn := cfg.GetDatabaseDSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}

	if !containsSubstring(dsn, "postgres://") {
		t.Errorf("expected DSN to start with 'postgres://', got '%s'", dsn)
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "development"}}

	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}
	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

func TestIsProduction(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "production"}}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

func TestIsStaging(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "staging"}}

	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

func TestLoadConfig_EnvironmentVariableExpansion(t *testing.T) {
	testValue := "expanded_secret_value"
	os.Setenv("TEST_DB_PASSWORD", testValue)
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load("testdata/expansion_config.yaml")
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != testValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", testValue, cfg.Database.Password)
	}
}

func TestLoadConfig_MissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv("TEST_MISSING_VAR")

	cfg, err := Load("testdata/expansion_config_missing.yaml")
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	expectedLiteral := "${TEST_MISSING_VAR}"
	if cfg.Database.Password != expectedLiteral && cfg.Database.Password != "" {
		t.Logf("note: missing env var became: %q (expected literal or empty)", cfg.Database.Password)
	}
}

func containsSubstring(str, substr string) bool {
	for i := 0; i <= len(str)-len(substr); i++ {
		if str[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
