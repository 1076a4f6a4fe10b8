// Package storage persists combined results into Postgres.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"NewsAnalyzer/internal/domain"
	"NewsAnalyzer/internal/ports"
)

// PostgresRepository stores one row per analyzed article, keyed by URL.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ResultRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SaveResults upserts the batch. Re-running a query refreshes existing
// rows instead of duplicating them.
func (r *PostgresRepository) SaveResults(ctx context.Context, results []domain.CombinedResult) error {
	if r.db == nil || len(results) == 0 {
		return nil
	}

	builder := sq.Insert("article_analyses").
		Columns("url", "title", "source", "author", "published_at",
			"gist", "sentiment", "tone", "is_valid", "validation_result").
		PlaceholderFormat(sq.Dollar).
		Suffix(`ON CONFLICT (url) DO UPDATE
                SET gist = EXCLUDED.gist,
                    sentiment = EXCLUDED.sentiment,
                    tone = EXCLUDED.tone,
                    is_valid = EXCLUDED.is_valid,
                    validation_result = EXCLUDED.validation_result,
                    updated_at = NOW()`)

	for _, result := range results {
		builder = builder.Values(
			result.Article.URL,
			result.Article.Title,
			result.Article.Source,
			result.Article.Author,
			result.Article.PublishedAt,
			result.Analysis.Gist,
			string(result.Analysis.Sentiment),
			string(result.Analysis.Tone),
			result.Validation.IsValid,
			result.Validation.Result,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert results: %w", err)
	}

	return nil
}
