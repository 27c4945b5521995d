package skysweep

import "log/slog"

// Option configures an App.
type Option func(*resolvedOptions)

// resolvedOptions holds all extension points after applying defaults.
// Unexported — callers use the With* functions.
type resolvedOptions struct {
	logger     *slog.Logger
	version    string
	workers    int
	dbPath     string
	boundsFile string
	catalog    PolarCatalog
}

// WithLogger sets the structured logger for the App.
// If not set, the default slog logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}

// WithVersion sets the version string reported in telemetry and logs.
func WithVersion(version string) Option {
	return func(o *resolvedOptions) { o.version = version }
}

// WithWorkers overrides the worker pool width from config (SKYSWEEP_WORKERS
// env var). Zero or negative selects one worker per hardware thread, less
// one reserved for collection.
func WithWorkers(n int) Option {
	return func(o *resolvedOptions) { o.workers = n }
}

// WithDBPath overrides the run archive path from config (SKYSWEEP_DB_PATH
// env var). An empty path disables archiving.
func WithDBPath(path string) Option {
	return func(o *resolvedOptions) { o.dbPath = path }
}

// WithBoundsFile overrides the YAML bounds override file from config
// (SKYSWEEP_BOUNDS_FILE env var).
func WithBoundsFile(path string) Option {
	return func(o *resolvedOptions) { o.boundsFile = path }
}

// WithCatalog replaces the built-in parametric airfoil catalog.
// Only the last call wins — if multiple are registered, only the last takes
// effect.
func WithCatalog(c PolarCatalog) Option {
	return func(o *resolvedOptions) { o.catalog = c }
}
