package pipeline

import (
	"context"
	"log/slog"
)

// Step is one stage of an import. Steps run in sequence, each one seeing
// what the previous steps put on the job.
type Step interface {
	// Do runs the step. A returned error stops the pipeline unless
	// continue-on-error is set. Non-fatal observations belong in the
	// job's report diagnostics.
	Do(ctx context.Context, job *Job) error

	// Name returns the step name used in logs and PerformedSteps.
	Name() string
}

// Pipeline runs steps over a job.
type Pipeline struct {
	steps []Step

	logger *slog.Logger

	// continueOnError keeps running steps after a failure.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. A nil logger selects slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError runs every step even after one fails. The first
// failure is still recorded on the job.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps over job. Cancellation is checked before each
// step. It returns the first step error, or nil when the job succeeded or
// was skipped. The job report is finished either way.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	var firstErr error
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"source", job.Path,
				"reason", ctx.Err(),
			)
			job.fail(ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"source", job.Path,
		)

		err := step.Do(ctx, job)
		job.PerformedSteps = append(job.PerformedSteps, step.Name())
		if err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", job.Path,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
				job.fail(err)
			}
			if !p.continueOnError {
				return err
			}
			continue
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"source", job.Path,
		)
		if job.Skipped() {
			p.logger.Info("job skipped",
				"step", step.Name(),
				"source", job.Path,
				"reason", job.Report.Error,
			)
			break
		}
	}

	if firstErr != nil {
		return firstErr
	}
	job.Report.Finish(nil)
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
