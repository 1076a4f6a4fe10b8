package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"NewsAnalyzer/internal/config"
	"NewsAnalyzer/internal/infrastructure/gemini"
	"NewsAnalyzer/internal/infrastructure/newsapi"
	"NewsAnalyzer/internal/infrastructure/openrouter"
	"NewsAnalyzer/internal/infrastructure/output"
	"NewsAnalyzer/internal/infrastructure/scheduler"
	"NewsAnalyzer/internal/infrastructure/storage"
	"NewsAnalyzer/internal/infrastructure/telegram"
	"NewsAnalyzer/internal/logging"
	"NewsAnalyzer/internal/ports"
	"NewsAnalyzer/internal/retry"
	"NewsAnalyzer/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	pipeline  *usecase.Pipeline
	scheduler *usecase.RunScheduler
	request   usecase.RunRequest
	db        *sql.DB
	logger    *slog.Logger
}

// New builds a runnable application instance or fails when required API
// keys are absent.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if cfg.NewsAPI.APIKey == "" {
		return nil, fmt.Errorf("newsapi API key cannot be empty")
	}
	if cfg.OpenRouter.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key cannot be empty")
	}

	source := newsapi.NewClient(cfg.NewsAPI.BaseURL, cfg.NewsAPI.APIKey,
		baseLogger.With("component", "newsapi"))

	generator, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("init gemini: %w", err)
	}

	completer := openrouter.NewClient(cfg.OpenRouter.Endpoint, cfg.OpenRouter.Model, cfg.OpenRouter.APIKey)

	analyzer := usecase.NewAnalysisStage(generator, generator.Model(),
		&retry.Caller{
			Attempts: cfg.Pipeline.RetryAttempts,
			Logger:   baseLogger.With("component", "analyzer"),
		},
		baseLogger.With("component", "analyzer"))

	validator := usecase.NewValidationStage(completer, completer.Model(),
		&retry.Caller{
			Attempts: cfg.Pipeline.RetryAttempts,
			Logger:   baseLogger.With("component", "validator"),
		},
		baseLogger.With("component", "validator"))

	var db *sql.DB
	var repository ports.ResultRepository
	if cfg.Database.DSN != "" {
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repository = storage.NewPostgresRepository(db)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier("", cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:          source,
		Analyzer:        analyzer,
		Validator:       validator,
		Repository:      repository,
		Output:          output.NewFileStore(cfg.Pipeline.OutputDir, baseLogger.With("component", "output")),
		Notifier:        notifier,
		Logger:          baseLogger.With("component", "pipeline"),
		AnalysisDelay:   cfg.Pipeline.AnalysisDelay(),
		ValidationDelay: cfg.Pipeline.ValidationDelay(),
	})

	request := usecase.RunRequest{
		Query:       cfg.NewsAPI.Query,
		Language:    cfg.NewsAPI.Language,
		MaxArticles: cfg.NewsAPI.MaxArticles,
	}

	application := &Application{
		cfg:      cfg,
		pipeline: pipeline,
		request:  request,
		db:       db,
		logger:   baseLogger,
	}

	if cfg.Scheduler.Enabled {
		driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval())
		application.scheduler = usecase.NewRunScheduler(driver, pipeline, request,
			baseLogger.With("component", "scheduler"))
	}

	return application, nil
}

// Run executes a single pipeline pass, or keeps re-running on the
// configured interval until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		<-ctx.Done()
		return a.scheduler.Stop(context.Background())
	}

	_, err := a.pipeline.Run(ctx, a.request)
	return err
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
