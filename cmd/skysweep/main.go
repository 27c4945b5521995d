package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/skysweep/skysweep"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run0())
}

func run0() int {
	level := slog.LevelInfo
	if os.Getenv("SKYSWEEP_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, logger *slog.Logger) error {
	var (
		variant    = flag.String("variant", "", "airframe variant to search: tandem, flying_wing, traditional, vtol, or all")
		samples    = flag.Int("samples", 0, "design candidates per variant (0 uses SKYSWEEP_SAMPLES)")
		method     = flag.String("method", "", "sampling method: sobol, halton, latin_hypercube, random (empty uses SKYSWEEP_METHOD)")
		seed       = flag.Uint64("seed", 0, "scramble seed; 0 means unscrambled")
		objectives = flag.String("objectives", "", "comma-separated objectives to maximize (default flight_time,ld_ratio)")
		workers    = flag.Int("workers", 0, "worker pool width (0 uses one per hardware thread, less one)")
		dbPath     = flag.String("db", "", "SQLite run archive path (empty uses SKYSWEEP_DB_PATH)")
		boundsFile = flag.String("bounds", "", "YAML bounds override file")
		mcpMode    = flag.Bool("mcp", false, "serve MCP tools over stdio instead of running a search")
	)
	flag.Parse()

	app, err := skysweep.New(
		skysweep.WithVersion(version),
		skysweep.WithLogger(logger),
		skysweep.WithWorkers(*workers),
		skysweep.WithDBPath(*dbPath),
		skysweep.WithBoundsFile(*boundsFile),
	)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close(context.Background()) }()

	if *mcpMode {
		logger.Info("serving MCP over stdio", "version", version)
		return app.ServeMCP()
	}

	if *variant == "" {
		return fmt.Errorf("-variant is required (or use -mcp)")
	}

	req := skysweep.Request{
		Variant: *variant,
		Samples: *samples,
		Method:  *method,
		Seed:    *seed,
	}
	if *objectives != "" {
		for _, name := range strings.Split(*objectives, ",") {
			if name = strings.TrimSpace(name); name != "" {
				req.Objectives = append(req.Objectives, name)
			}
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *variant == "all" {
		runs, err := app.SearchAll(ctx, req)
		if err != nil {
			return err
		}
		return enc.Encode(runs)
	}

	run, err := app.Search(ctx, req)
	if err != nil {
		return err
	}
	return enc.Encode(run)
}
