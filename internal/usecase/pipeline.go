package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsAnalyzer/internal/domain"
	"NewsAnalyzer/internal/ports"
	"NewsAnalyzer/internal/report"
)

// RunRequest carries the parameters for one pipeline run.
type RunRequest struct {
	Query       string
	Language    string
	MaxArticles int
}

// RunSummary is what a completed run hands back to the caller.
type RunSummary struct {
	Results    []domain.CombinedResult
	Statistics domain.Statistics
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// Repository, Output and Notifier are optional; nil skips that step.
type PipelineDeps struct {
	Source          ports.ArticleSource
	Analyzer        *AnalysisStage
	Validator       *ValidationStage
	Repository      ports.ResultRepository
	Output          ports.OutputStore
	Notifier        ports.Notifier
	Logger          *slog.Logger
	AnalysisDelay   time.Duration
	ValidationDelay time.Duration
}

// Pipeline sequences one run: fetch, analyze all, validate all, combine,
// compute statistics, emit outputs. It holds no retry logic of its own;
// each stage owns its resilience.
type Pipeline struct {
	source          ports.ArticleSource
	analyzer        *AnalysisStage
	validator       *ValidationStage
	repository      ports.ResultRepository
	output          ports.OutputStore
	notifier        ports.Notifier
	logger          *slog.Logger
	analysisDelay   time.Duration
	validationDelay time.Duration
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:          deps.Source,
		analyzer:        deps.Analyzer,
		validator:       deps.Validator,
		repository:      deps.Repository,
		output:          deps.Output,
		notifier:        deps.Notifier,
		logger:          deps.Logger,
		analysisDelay:   deps.AnalysisDelay,
		validationDelay: deps.ValidationDelay,
	}
}

// Run executes one complete pass. Per-item failures are absorbed into
// sentinel records by the batch stages; anything surfacing here (zero
// articles, mismatched batch lengths, output failures) aborts the run.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	start := time.Now()
	p.info("starting pipeline run", "query", req.Query, "max_articles", req.MaxArticles)

	articles, err := p.source.Fetch(ctx, req.Query, req.Language, req.MaxArticles)
	if err != nil {
		return RunSummary{}, fmt.Errorf("fetch articles: %w", err)
	}
	if len(articles) == 0 {
		return RunSummary{}, &domain.EmptyResultError{Query: req.Query}
	}
	p.info("fetched articles", "count", len(articles))

	if p.output != nil {
		if err := p.output.SaveJSON("raw_articles.json", articles); err != nil {
			return RunSummary{}, fmt.Errorf("save raw articles: %w", err)
		}
	}

	analyses := p.analyzer.AnalyzeBatch(ctx, articles, p.analysisDelay)
	p.info("analyzed articles", "count", len(analyses))

	validations, err := p.validator.ValidateBatch(ctx, articles, analyses, p.validationDelay)
	if err != nil {
		return RunSummary{}, fmt.Errorf("validate batch: %w", err)
	}
	p.info("validated analyses", "count", len(validations))

	results := Combine(articles, analyses, validations)
	stats := ComputeStatistics(results, time.Since(start))

	if p.output != nil {
		if err := p.output.SaveJSON("analysis_results.json", results); err != nil {
			return RunSummary{}, fmt.Errorf("save results: %w", err)
		}
		markdown := report.Generate(results, stats, req.Query, time.Now())
		if err := p.output.SaveReport("final_report.md", markdown); err != nil {
			return RunSummary{}, fmt.Errorf("save report: %w", err)
		}
	}

	if p.repository != nil {
		if err := p.repository.SaveResults(ctx, results); err != nil {
			return RunSummary{}, fmt.Errorf("persist results: %w", err)
		}
	}

	if p.notifier != nil {
		if err := p.notifier.PublishDigest(ctx, report.Digest(stats)); err != nil {
			return RunSummary{}, fmt.Errorf("publish digest: %w", err)
		}
	}

	p.info("pipeline run complete",
		"total_articles", stats.TotalArticles,
		"duration_seconds", stats.DurationSeconds,
		"valid", stats.ValidationCounts.Valid,
		"invalid", stats.ValidationCounts.Invalid,
	)

	return RunSummary{Results: results, Statistics: stats}, nil
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
