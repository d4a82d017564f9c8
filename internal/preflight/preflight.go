package preflight

import (
	"context"

	"voxtract/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// EngineChecker verifies that the analysis engine can start.
type EngineChecker interface {
	CheckEngine(ctx context.Context) error
}

// RunAll executes the filesystem checks for cfg and, when engine is non-nil,
// the engine import check.
func RunAll(ctx context.Context, cfg *config.Config, engine EngineChecker) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadableDirectory("Input directory", cfg.Paths.InputDir),
		CheckWritableTarget("Output directory", cfg.Paths.OutputDir),
		CheckWritableTarget("State directory", cfg.Paths.StateDir),
		CheckWritableTarget("Log directory", cfg.Paths.LogDir),
	}

	if engine != nil {
		results = append(results, CheckEngine(ctx, engine))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return true
		}
	}
	return false
}
