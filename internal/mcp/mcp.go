// Package mcp implements the Model Context Protocol server for SkySweep.
//
// The MCP server exposes the search engine to MCP-compatible AI agents:
// launching design space searches, inspecting the airfoil catalog, and
// reading back archived runs.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/skysweep/skysweep/internal/design"
	"github.com/skysweep/skysweep/internal/eval"
	"github.com/skysweep/skysweep/internal/pareto"
	"github.com/skysweep/skysweep/internal/sampler"
	"github.com/skysweep/skysweep/internal/search"
)

// Server wraps the MCP server with the search engine.
type Server struct {
	mcpServer   *mcpserver.MCPServer
	engine      *search.Engine
	constraints eval.Constraints
	logger      *slog.Logger
}

// New creates and configures a new MCP server with all tools registered.
// constraints are the defaults a tool call may selectively override.
func New(engine *search.Engine, constraints eval.Constraints, logger *slog.Logger) *Server {
	s := &Server{
		engine:      engine,
		constraints: constraints,
		logger:      logger,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"skysweep",
		"0.1.0",
		mcpserver.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	// sky_run_search — explore one variant's design space.
	s.mcpServer.AddTool(
		mcplib.NewTool("sky_run_search",
			mcplib.WithDescription(`Run a design space search for one airframe variant and return the Pareto front.

Samples the variant's design space with a low-discrepancy sequence, evaluates
each candidate against the mission constraints, and returns the non-dominated
set with per-objective metrics. Larger sample counts take proportionally
longer; 10000 samples is a reasonable exploratory run.`),
			mcplib.WithIdempotentHintAnnotation(false),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("variant",
				mcplib.Description("Airframe variant: tandem, flying_wing, traditional, or vtol"),
				mcplib.Required(),
			),
			mcplib.WithNumber("samples",
				mcplib.Description("Number of design candidates to evaluate"),
				mcplib.Min(1),
				mcplib.Max(1000000),
				mcplib.DefaultNumber(10000),
			),
			mcplib.WithString("method",
				mcplib.Description("Sampling method: sobol, halton, latin_hypercube, or random"),
				mcplib.DefaultString("sobol"),
			),
			mcplib.WithNumber("seed",
				mcplib.Description("Scramble seed for reproducibility; 0 means unscrambled"),
				mcplib.DefaultNumber(0),
			),
			mcplib.WithString("objectives",
				mcplib.Description("Comma-separated objectives to maximize: flight_time, ld_ratio, range. Default: flight_time,ld_ratio"),
			),
			mcplib.WithNumber("target_flight_min",
				mcplib.Description("Target flight time in minutes the battery is sized against"),
			),
		),
		s.handleRunSearch,
	)

	// sky_list_airfoils — inspect the airfoil catalog.
	s.mcpServer.AddTool(
		mcplib.NewTool("sky_list_airfoils",
			mcplib.WithDescription("List the airfoil sections available to the decoder, with their key aerodynamic properties at a reference Reynolds number."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
		),
		s.handleListAirfoils,
	)

	// sky_get_run — read back an archived run.
	s.mcpServer.AddTool(
		mcplib.NewTool("sky_get_run",
			mcplib.WithDescription("Fetch an archived search run by ID, including its full Pareto front."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("run_id",
				mcplib.Description("Run identifier returned by sky_run_search"),
				mcplib.Required(),
			),
		),
		s.handleGetRun,
	)

	// sky_list_runs — browse the run archive.
	s.mcpServer.AddTool(
		mcplib.NewTool("sky_list_runs",
			mcplib.WithDescription("List archived search runs, newest first."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithNumber("limit",
				mcplib.Description("Maximum runs to return"),
				mcplib.Min(1),
				mcplib.Max(500),
				mcplib.DefaultNumber(20),
			),
		),
		s.handleListRuns,
	)
}

func (s *Server) handleRunSearch(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	variant, err := design.ParseVariant(request.GetString("variant", ""))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	method, err := sampler.ParseMethod(request.GetString("method", string(sampler.MethodSobol)))
	if err != nil {
		return errorResult(err.Error()), nil
	}

	var objectives []pareto.Objective
	if raw := request.GetString("objectives", ""); raw != "" {
		for _, name := range splitComma(raw) {
			obj, err := pareto.ParseObjective(name)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			objectives = append(objectives, obj)
		}
	}

	constraints := s.constraints
	if target := request.GetFloat("target_flight_min", 0); target > 0 {
		constraints.TargetFlightTimeMin = target
	}

	req := search.Request{
		Variant:     variant,
		Samples:     request.GetInt("samples", 10000),
		Method:      method,
		Seed:        uint64(request.GetInt("seed", 0)),
		Objectives:  objectives,
		Constraints: constraints,
	}

	run, err := s.engine.RunSearch(ctx, req)
	if err != nil {
		return errorResult(fmt.Sprintf("search failed: %v", err)), nil
	}

	return jsonResult(runSummary(run))
}

func (s *Server) handleListAirfoils(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	cat := s.engine.Catalog()

	const refReynolds = 200000.0
	type entry struct {
		Name          string  `json:"name"`
		ClMax         float64 `json:"cl_max"`
		StallAlphaDeg float64 `json:"stall_alpha_deg"`
		ZeroLiftDeg   float64 `json:"zero_lift_alpha_deg"`
		LiftSlope     float64 `json:"lift_slope_per_deg"`
	}

	entries := make([]entry, 0, cat.Len())
	for _, name := range cat.Names() {
		clMax, err := cat.ClMax(name, refReynolds)
		if err != nil {
			return errorResult(fmt.Sprintf("catalog lookup failed: %v", err)), nil
		}
		stall, err := cat.StallAlpha(name, refReynolds)
		if err != nil {
			return errorResult(fmt.Sprintf("catalog lookup failed: %v", err)), nil
		}
		zeroLift, err := cat.ZeroLiftAlpha(name)
		if err != nil {
			return errorResult(fmt.Sprintf("catalog lookup failed: %v", err)), nil
		}
		slope, err := cat.LiftSlope(name)
		if err != nil {
			return errorResult(fmt.Sprintf("catalog lookup failed: %v", err)), nil
		}
		entries = append(entries, entry{
			Name:          name,
			ClMax:         clMax,
			StallAlphaDeg: stall,
			ZeroLiftDeg:   zeroLift,
			LiftSlope:     slope,
		})
	}

	return jsonResult(map[string]any{
		"reynolds": refReynolds,
		"airfoils": entries,
	})
}

func (s *Server) handleGetRun(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	store := s.engine.Store()
	if store == nil {
		return errorResult("run archive is not enabled"), nil
	}
	runID := request.GetString("run_id", "")
	if runID == "" {
		return errorResult("run_id is required"), nil
	}

	rec, err := store.GetRun(ctx, runID)
	if err != nil {
		return errorResult(fmt.Sprintf("get run: %v", err)), nil
	}

	type member struct {
		PointID string          `json:"point_id"`
		Point   json.RawMessage `json:"point"`
		Metrics json.RawMessage `json:"metrics"`
	}
	front := make([]member, 0, len(rec.Front))
	for _, m := range rec.Front {
		front = append(front, member{PointID: m.PointID, Point: m.Point, Metrics: m.Metrics})
	}

	return jsonResult(map[string]any{
		"run_id":          rec.ID,
		"variant":         rec.Variant,
		"method":          rec.Method,
		"seed":            rec.Seed,
		"samples":         rec.Samples,
		"n_evaluated":     rec.NEvaluated,
		"n_valid":         rec.NValid,
		"elapsed_seconds": rec.ElapsedSeconds,
		"rejections":      rec.Rejections,
		"created_at":      rec.CreatedAt,
		"front":           front,
	})
}

func (s *Server) handleListRuns(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	store := s.engine.Store()
	if store == nil {
		return errorResult("run archive is not enabled"), nil
	}

	recs, err := store.ListRuns(ctx, request.GetInt("limit", 20))
	if err != nil {
		return errorResult(fmt.Sprintf("list runs: %v", err)), nil
	}

	type summary struct {
		RunID          string  `json:"run_id"`
		Variant        string  `json:"variant"`
		Method         string  `json:"method"`
		Samples        int     `json:"samples"`
		NValid         int64   `json:"n_valid"`
		ElapsedSeconds float64 `json:"elapsed_seconds"`
		CreatedAt      string  `json:"created_at"`
	}
	summaries := make([]summary, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, summary{
			RunID:          rec.ID,
			Variant:        rec.Variant,
			Method:         rec.Method,
			Samples:        rec.Samples,
			NValid:         rec.NValid,
			ElapsedSeconds: rec.ElapsedSeconds,
			CreatedAt:      rec.CreatedAt.Format(time.RFC3339),
		})
	}

	return jsonResult(map[string]any{
		"runs":  summaries,
		"total": len(summaries),
	})
}

// runSummary shapes a completed run for tool output: the front is trimmed
// to point IDs plus metrics so large fronts stay readable.
func runSummary(run search.Run) map[string]any {
	type member struct {
		PointID string       `json:"point_id"`
		Metrics eval.Metrics `json:"metrics"`
	}
	front := make([]member, 0, len(run.Front))
	for _, r := range run.Front {
		front = append(front, member{PointID: r.Point.ID, Metrics: r.Metrics})
	}

	rejections := make(map[string]int64, len(run.Rejections))
	for reason, n := range run.Rejections {
		rejections[string(reason)] = n
	}

	return map[string]any{
		"run_id":          run.ID,
		"variant":         string(run.Variant),
		"method":          string(run.Method),
		"seed":            run.Seed,
		"samples":         run.Samples,
		"n_evaluated":     run.NEvaluated,
		"n_valid":         run.NValid,
		"degraded":        run.Degraded,
		"elapsed_seconds": run.ElapsedSeconds,
		"rejections":      rejections,
		"front_size":      len(front),
		"front":           front,
		"front_metrics":   run.FrontMetrics,
	}
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(data)},
		},
	}, nil
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
