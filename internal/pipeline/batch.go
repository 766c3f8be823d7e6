package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files a BatchProcessor imports at
// once unless WithConcurrency says otherwise.
const DefaultConcurrency = 4

// BatchProcessor imports several files concurrently.
type BatchProcessor struct {
	// pipelineFactory builds a fresh pipeline per file.
	pipelineFactory func() *Pipeline

	concurrency int

	logger *slog.Logger

	results []*Job
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger. A nil logger selects slog.Default.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the number of concurrent imports. Non-positive
// values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. pipelineFactory is called
// once per file.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		results:         make([]*Job, 0),
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch imports paths and returns one job per path, in input order.
// A failed file does not stop the others; its error is on its job. The
// returned error is non-nil only when the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*Job, error) {
	bp.logger.Info("starting batch import",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	bp.mu.Lock()
	bp.results = make([]*Job, len(paths))
	bp.mu.Unlock()

	err := bp.run(ctx, paths, func(job *Job, i int) {
		bp.mu.Lock()
		bp.results[i] = job
		bp.mu.Unlock()
	})

	bp.logger.Info("batch import complete",
		"total_files", len(paths),
		"elapsed", time.Since(startTime),
	)

	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.results, err
}

// ProcessBatchWithCallback imports paths and calls callback as each file
// finishes. callback runs on worker goroutines and must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(job *Job, index int),
) error {
	bp.logger.Info("starting batch import with callback",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)
	return bp.run(ctx, paths, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, paths []string, done func(job *Job, index int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("importing file",
				"source", path,
				"index", i+1,
				"total", len(paths),
			)

			job := NewJob(path)
			if err := bp.pipelineFactory().Execute(ctx, job); err != nil {
				bp.logger.Warn("import failed",
					"source", path,
					"error", err,
				)
			} else {
				bp.logger.Info("import completed",
					"source", path,
					"status", job.Report.Status,
				)
			}
			done(job, i)
			return nil
		})
	}
	return g.Wait()
}
