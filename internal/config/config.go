// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// Search settings.
	Samples       int    // samples per variant
	Workers       int    // 0 selects the scheduler default
	Method        string // "sobol", "halton", "latin_hypercube", or "random"
	Seed          uint64 // scramble/shuffle seed; 0 means unscrambled
	ProgressEvery int    // log cadence in evaluated samples; 0 disables
	BoundsFile    string // optional YAML bounds override, empty uses built-ins

	// Mission envelope defaults; a request may override them.
	MaxSpanM            float64
	MaxLengthM          float64
	MaxStallSpeedMS     float64
	CruiseSpeedMS       float64
	MinThrustWeight     float64
	TargetFlightTimeMin float64

	// Storage settings.
	DBPath string // SQLite database path; empty disables the run archive

	// OTEL settings.
	OTELEndpoint string
	ServiceName  string

	// Operational settings.
	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Samples:             envInt("SKYSWEEP_SAMPLES", 100000),
		Workers:             envInt("SKYSWEEP_WORKERS", 0),
		Method:              envStr("SKYSWEEP_METHOD", "sobol"),
		Seed:                uint64(envInt("SKYSWEEP_SEED", 0)),
		ProgressEvery:       envInt("SKYSWEEP_PROGRESS_EVERY", 10000),
		BoundsFile:          envStr("SKYSWEEP_BOUNDS_FILE", ""),
		MaxSpanM:            envFloat("SKYSWEEP_MAX_SPAN_M", 1.0),
		MaxLengthM:          envFloat("SKYSWEEP_MAX_LENGTH_M", 1.0),
		MaxStallSpeedMS:     envFloat("SKYSWEEP_MAX_STALL_MS", 5.59),
		CruiseSpeedMS:       envFloat("SKYSWEEP_CRUISE_MS", 15.65),
		MinThrustWeight:     envFloat("SKYSWEEP_MIN_THRUST_WEIGHT", 0.55),
		TargetFlightTimeMin: envFloat("SKYSWEEP_TARGET_FLIGHT_MIN", 120),
		DBPath:              envStr("SKYSWEEP_DB_PATH", ""),
		OTELEndpoint:        envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:         envStr("OTEL_SERVICE_NAME", "skysweep"),
		LogLevel:            envStr("SKYSWEEP_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present and consistent.
func (c Config) Validate() error {
	if c.Samples <= 0 {
		return fmt.Errorf("config: SKYSWEEP_SAMPLES must be positive")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: SKYSWEEP_WORKERS must not be negative")
	}
	switch c.Method {
	case "sobol", "halton", "latin_hypercube", "random":
	default:
		return fmt.Errorf("config: unknown sample method %q", c.Method)
	}
	if c.CruiseSpeedMS <= c.MaxStallSpeedMS {
		return fmt.Errorf("config: cruise speed %g must exceed the stall limit %g",
			c.CruiseSpeedMS, c.MaxStallSpeedMS)
	}
	if c.TargetFlightTimeMin <= 0 {
		return fmt.Errorf("config: SKYSWEEP_TARGET_FLIGHT_MIN must be positive")
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
