package operations

import (
	"context"
	"log/slog"
	"time"

	"ridership/internal/infrastructure"
)

// Pipeline runs steps sequentially. The first failing step aborts the run.
type Pipeline struct {
	steps  []Step
	tracer *StepTracer
	logger *slog.Logger
}

// NewPipeline creates a pipeline over steps. A nil tracer uses the global OTel
// provider without metrics; a nil logger uses slog.Default.
func NewPipeline(tracer *StepTracer, logger *slog.Logger, steps ...Step) *Pipeline {
	if tracer == nil {
		tracer = NewStepTracer(nil, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		steps:  steps,
		tracer: tracer,
		logger: logger,
	}
}

// Run executes every step against state. The error of the first failing step is
// returned as is; later steps are marked skipped. Cancellation of ctx between steps
// stops the run with ctx.Err().
func (p *Pipeline) Run(ctx context.Context, state *OperationState) error {
	ctx = infrastructure.WithTraceID(ctx, state.ID)

	for _, step := range p.steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, runSpan := p.tracer.StartRun(ctx, state.ID, len(p.steps))
	state.Start()

	p.logger.InfoContext(ctx, "Pipeline started",
		slog.String("run_id", state.ID),
		slog.Int("step_count", len(p.steps)))

	err := p.execute(ctx, state)

	switch {
	case err == nil:
		state.Complete()
	case ctx.Err() != nil && err == ctx.Err():
		state.Cancel(err)
	default:
		state.Fail(err)
	}
	p.tracer.EndRun(ctx, runSpan, state.Duration(), err)

	if err != nil {
		p.logger.ErrorContext(ctx, "Pipeline failed",
			slog.String("run_id", state.ID),
			slog.String("status", string(state.GetStatus())),
			slog.String("error", err.Error()),
			slog.String("error_type", ErrorType(err)),
			slog.Duration("duration", state.Duration()))
		return err
	}

	p.logger.InfoContext(ctx, "Pipeline completed",
		slog.String("run_id", state.ID),
		slog.Duration("duration", state.Duration()))
	return nil
}

func (p *Pipeline) execute(ctx context.Context, state *OperationState) error {
	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.skipRemaining(state, i, "run cancelled")
			return err
		}

		if err := p.executeStep(ctx, state, step, i+1); err != nil {
			p.skipRemaining(state, i+1, "step "+step.ID()+" failed")
			return err
		}
	}
	return nil
}

func (p *Pipeline) executeStep(ctx context.Context, state *OperationState, step Step, number int) error {
	stepState := state.GetStep(step.ID())
	stepCtx, span := p.tracer.StartStep(ctx, state.ID, step)

	p.logger.InfoContext(stepCtx, "Executing step",
		slog.String("step", step.ID()),
		slog.Int("step_number", number),
		slog.Int("total_steps", len(p.steps)))

	start := time.Now()
	stepState.Start()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)

	if err != nil {
		stepState.Fail(err)
	} else {
		stepState.Complete()
	}

	rows := stepState.Snapshot().Rows
	p.tracer.EndStep(stepCtx, span, step.ID(), duration, rows, err)

	if err != nil {
		p.logger.ErrorContext(stepCtx, "Step failed",
			slog.String("step", step.ID()),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		return err
	}

	p.logger.InfoContext(stepCtx, "Step completed",
		slog.String("step", step.ID()),
		slog.Int("rows", rows),
		slog.Duration("duration", duration))
	return nil
}

func (p *Pipeline) skipRemaining(state *OperationState, from int, reason string) {
	for _, step := range p.steps[from:] {
		if s := state.GetStep(step.ID()); s != nil {
			s.Skip(reason)
		}
	}
}
