package usecase

import (
	"context"
	"log/slog"

	"NewsAnalyzer/internal/ports"
)

// RunScheduler wires the interval driver with the pipeline use case.
type RunScheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	request  RunRequest
	logger   *slog.Logger
}

// NewRunScheduler returns a helper to start/stop recurring runs.
func NewRunScheduler(driver ports.Scheduler, pipeline *Pipeline, request RunRequest, logger *slog.Logger) *RunScheduler {
	return &RunScheduler{driver: driver, pipeline: pipeline, request: request, logger: logger}
}

// Start registers the pipeline run with the provided scheduler. Runs are
// triggered one at a time; the driver never overlaps them.
func (s *RunScheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func() {
		if _, err := s.pipeline.Run(ctx, s.request); err != nil && s.logger != nil {
			s.logger.Error("scheduled run failed", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *RunScheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
