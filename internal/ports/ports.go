package ports

import (
	"context"

	"NewsAnalyzer/internal/domain"
)

// ArticleSource pulls normalized articles from an upstream news provider.
type ArticleSource interface {
	Fetch(ctx context.Context, query, language string, maxArticles int) ([]domain.Article, error)
}

// Generator is the analysis model: one prompt in, free-form text out.
// An empty reply is a valid, retryable response.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatCompleter is the validation model behind a chat-completion endpoint.
// Complete returns the first choice's message content.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ResultRepository persists combined results for audit and history.
type ResultRepository interface {
	SaveResults(ctx context.Context, results []domain.CombinedResult) error
}

// OutputStore writes run artifacts (JSON dumps, Markdown report).
type OutputStore interface {
	SaveJSON(name string, v any) error
	SaveReport(name, content string) error
}

// Notifier streams run digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func()) error
	Stop(ctx context.Context) error
}
