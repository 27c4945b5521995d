package config

import (
	"testing"
)

func TestEnvStr(t *testing.T) {
	t.Setenv("TEST_STR", "halton")
	if v := envStr("TEST_STR", "sobol"); v != "halton" {
		t.Fatalf("expected halton, got %s", v)
	}
	if v := envStr("TEST_STR_MISSING", "sobol"); v != "sobol" {
		t.Fatalf("expected fallback sobol, got %s", v)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if v := envInt("TEST_INT", 0); v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
	if v := envInt("TEST_INT_MISSING", 99); v != 99 {
		t.Fatalf("expected fallback 99, got %d", v)
	}
	// Unparseable values fall back instead of crashing the process.
	t.Setenv("TEST_INT_BAD", "abc")
	if v := envInt("TEST_INT_BAD", 7); v != 7 {
		t.Fatalf("expected fallback 7, got %d", v)
	}
}

func TestEnvFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "15.65")
	if v := envFloat("TEST_FLOAT", 0); v != 15.65 {
		t.Fatalf("expected 15.65, got %g", v)
	}
	t.Setenv("TEST_FLOAT_BAD", "fast")
	if v := envFloat("TEST_FLOAT_BAD", 1.5); v != 1.5 {
		t.Fatalf("expected fallback 1.5, got %g", v)
	}
}

func TestLoadSucceedsWithDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected Load() to succeed with defaults, got: %v", err)
	}
	if cfg.Samples != 100000 {
		t.Fatalf("expected default sample count 100000, got %d", cfg.Samples)
	}
	if cfg.Method != "sobol" {
		t.Fatalf("expected default method sobol, got %s", cfg.Method)
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected the run archive to default off, got %s", cfg.DBPath)
	}
	if cfg.CruiseSpeedMS <= cfg.MaxStallSpeedMS {
		t.Fatalf("default cruise speed %g must exceed the stall limit %g",
			cfg.CruiseSpeedMS, cfg.MaxStallSpeedMS)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SKYSWEEP_SAMPLES", "512")
	t.Setenv("SKYSWEEP_METHOD", "latin_hypercube")
	t.Setenv("SKYSWEEP_SEED", "7")
	t.Setenv("SKYSWEEP_DB_PATH", "/tmp/runs.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Samples != 512 {
		t.Fatalf("expected 512 samples, got %d", cfg.Samples)
	}
	if cfg.Method != "latin_hypercube" {
		t.Fatalf("expected latin_hypercube, got %s", cfg.Method)
	}
	if cfg.Seed != 7 {
		t.Fatalf("expected seed 7, got %d", cfg.Seed)
	}
	if cfg.DBPath != "/tmp/runs.db" {
		t.Fatalf("expected /tmp/runs.db, got %s", cfg.DBPath)
	}
}

func TestLoadFailsOnInvalidMethod(t *testing.T) {
	t.Setenv("SKYSWEEP_METHOD", "dartboard")
	if _, err := Load(); err == nil {
		t.Fatal("expected Load() to fail with an unknown method")
	}
}

func TestValidate(t *testing.T) {
	valid, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero samples", func(c *Config) { c.Samples = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"unknown method", func(c *Config) { c.Method = "grid" }},
		{"cruise below stall", func(c *Config) { c.CruiseSpeedMS = 2.0 }},
		{"zero flight time", func(c *Config) { c.TargetFlightTimeMin = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}
