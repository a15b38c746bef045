package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/crisis-data-etl/internal/observability"
)

// Stage is one step of the pipeline. Stages communicate only through the
// dataset files they read and write, so each is runnable on its own.
type Stage interface {
	Name() string
	Run(ctx context.Context) error
}

// Runner executes stages sequentially and stops at the first failure.
type Runner struct {
	stages  []Stage
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Runner over the given stages in execution order.
func New(logger *slog.Logger, metrics *observability.Metrics, stages ...Stage) *Runner {
	return &Runner{
		stages:  stages,
		logger:  logger,
		metrics: metrics,
	}
}

// Run executes every stage in order, recording per-stage duration and
// outcome.
func (r *Runner) Run(ctx context.Context) error {
	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.logger.Info("stage started", "stage", stage.Name())
		start := time.Now()

		err := stage.Run(ctx)
		elapsed := time.Since(start)
		r.metrics.StageDuration.WithLabelValues(stage.Name()).Observe(elapsed.Seconds())

		if err != nil {
			r.metrics.StageRuns.WithLabelValues(stage.Name(), "error").Inc()
			r.logger.Error("stage failed", "stage", stage.Name(), "duration", elapsed, "error", err)
			return fmt.Errorf("stage %s: %w", stage.Name(), err)
		}

		r.metrics.StageRuns.WithLabelValues(stage.Name(), "success").Inc()
		r.logger.Info("stage finished", "stage", stage.Name(), "duration", elapsed)
	}
	return nil
}
