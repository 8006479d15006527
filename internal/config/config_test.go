package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
	for _, key := range []string{
		"PORT", "GO_ENV", "DATABASE_URL", "REDIS_ADDR", "ML_SERVICE_URL", "ML_TIMEOUT_SECONDS",
		"ML_MAX_RETRIES", "ML_CONFIDENCE_THRESHOLD", "ML_MAX_RESULTS", "BUDGET_POLICY",
		"OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "UNSPLASH_ACCESS_KEY", "UNSPLASH_BASE_URL",
		"CLIMATE_CACHE_TTL_MINUTES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.MLServiceURL != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected ML URL %q", cfg.MLServiceURL)
	}
	if cfg.MLTimeout() != 30*time.Second || cfg.Retries() != 2 {
		t.Fatalf("unexpected ML policy: %s / %d", cfg.MLTimeout(), cfg.Retries())
	}
	if cfg.Threshold() != 0.6 || cfg.MaxResults != 3 || cfg.BudgetPolicy != "normalized" {
		t.Fatalf("unexpected request settings: %+v", cfg)
	}
	if cfg.ClimateCacheTTL() != 30*time.Minute {
		t.Fatalf("unexpected cache TTL %s", cfg.ClimateCacheTTL())
	}
	if cfg.DatabaseURL != "" || cfg.RedisAddr != "" || cfg.UnsplashAccessKey != "" {
		t.Fatal("optional integrations should be off by default")
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "9090"
ml_service_url: "http://ml.internal:8000"
ml_timeout_seconds: 10
ml_max_retries: 0
budget_policy: dollar
redis_addr: "redis:6379"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("PORT", "7070")
	t.Setenv("ML_CONFIDENCE_THRESHOLD", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("env should win over yaml, got %q", cfg.Port)
	}
	if cfg.MLServiceURL != "http://ml.internal:8000" || cfg.MLTimeout() != 10*time.Second {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.Retries() != 0 {
		t.Fatalf("explicit zero retries should be kept, got %d", cfg.Retries())
	}
	if cfg.BudgetPolicy != "dollar" || cfg.RedisAddr != "redis:6379" {
		t.Fatalf("unexpected values: %+v", cfg)
	}
	if cfg.Threshold() != 0.75 {
		t.Fatalf("unexpected threshold %v", cfg.Threshold())
	}
}

func TestLoadKeepsZeroThreshold(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("ml_confidence_threshold: 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Threshold() != 0 {
		t.Fatalf("explicit zero threshold from yaml should be kept, got %v", cfg.Threshold())
	}

	t.Setenv("ML_CONFIDENCE_THRESHOLD", "0")
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Threshold() != 0 {
		t.Fatalf("explicit zero threshold from env should be kept, got %v", cfg.Threshold())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"threshold above one", "ML_CONFIDENCE_THRESHOLD", "1.5"},
		{"negative threshold", "ML_CONFIDENCE_THRESHOLD", "-0.1"},
		{"non-numeric threshold", "ML_CONFIDENCE_THRESHOLD", "high"},
		{"non-numeric timeout", "ML_TIMEOUT_SECONDS", "soon"},
		{"negative retries", "ML_MAX_RETRIES", "-1"},
		{"unknown policy", "BUDGET_POLICY", "euros"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("port: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", cfgPath)

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}
