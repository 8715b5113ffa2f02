// Package operations orchestrates a ridership processing run as a sequence of steps.
//
// Pipeline: runs steps in order against a shared OperationState. The first failing
// step aborts the run and its error is returned unchanged; the remaining steps are
// marked skipped.
//
// Step: a single unit of work. The ridership pipeline is
//
//	bootstrap -> load -> transform -> save
//
// With Options.Fetcher set, a scrape step between bootstrap and load writes a fresh
// raw file first.
//
// OperationState: the run ID, resolved input and output paths, the raw and cleaned
// tables, and per-step StepState records that can be summarized after the run.
//
// StepTracer: one OpenTelemetry span for the run plus a child span per step, and the
// run, step duration and row instruments from infrastructure.PipelineMetrics.
//
// Example usage:
//
//	paths, err := config.NewPaths(cfg.Paths)
//	if err != nil {
//		return err
//	}
//	state, err := operations.Run(ctx, operations.DefaultOptions(paths))
//	for _, step := range state.Summary() {
//		fmt.Println(step.ID, step.Status)
//	}
package operations
