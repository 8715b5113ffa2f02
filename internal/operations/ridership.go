package operations

import (
	"context"
	"log/slog"

	"ridership/internal/config"
	"ridership/internal/dataprocessing"
	"ridership/internal/infrastructure"
)

// Options configures a ridership processing run
type Options struct {
	Paths *config.Paths
	// InputPath and OutputPath override the configured raw and processed files.
	InputPath  string
	OutputPath string
	// Precision is the number of decimal places kept in ridership_per_day.
	Precision int32
	Tracer    *StepTracer
	Logger    *slog.Logger
	// Fetcher, when set, refreshes the input file before it is loaded.
	Fetcher Fetcher
}

// NewRidershipPipeline creates the bootstrap, load, transform, save pipeline, with a
// scrape step after bootstrap when opts.Fetcher is set
func NewRidershipPipeline(opts Options) *Pipeline {
	steps := []Step{NewBootstrapStep()}
	if opts.Fetcher != nil {
		steps = append(steps, NewScrapeStep(opts.Fetcher))
	}
	steps = append(steps,
		NewLoadStep(opts.Logger),
		NewTransformStep(opts.Precision, opts.Logger),
		NewSaveStep(opts.Logger),
	)
	return NewPipeline(opts.Tracer, opts.Logger, steps...)
}

// Run processes the configured raw file into the processed file. The run ID is the
// trace ID already on ctx, or a new one. The returned state is populated even when
// the run fails.
func Run(ctx context.Context, opts Options) (*OperationState, error) {
	ctx = infrastructure.EnsureTraceID(ctx)

	state := NewOperationState(infrastructure.GetTraceID(ctx))
	state.Paths = opts.Paths
	if opts.Paths != nil {
		state.InputPath = opts.Paths.ResolveInput(opts.InputPath)
		state.OutputPath = opts.Paths.ResolveOutput(opts.OutputPath)
	} else {
		state.InputPath = opts.InputPath
		state.OutputPath = opts.OutputPath
	}

	return state, NewRidershipPipeline(opts).Run(ctx, state)
}

// DefaultOptions returns options for paths with the default per-day precision
func DefaultOptions(paths *config.Paths) Options {
	return Options{
		Paths:     paths,
		Precision: dataprocessing.DefaultPerDayPrecision,
	}
}
