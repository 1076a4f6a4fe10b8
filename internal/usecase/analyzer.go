package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"NewsAnalyzer/internal/domain"
	"NewsAnalyzer/internal/parse"
	"NewsAnalyzer/internal/ports"
	"NewsAnalyzer/internal/retry"
)

// minAnalyzableChars is the trimmed full-text length below which an
// article is rejected before any model call.
const minAnalyzableChars = 30

var errEmptyResponse = errors.New("model response was empty or blocked")

const analysisPromptTemplate = `You are a news analysis expert. Analyze the following news article and provide a structured response.

Article Title: %s

Article Text: %s

Provide your analysis in the following JSON format:
{
    "gist": "A concise 1-2 sentence summary of the main news",
    "sentiment": "positive OR negative OR neutral",
    "tone": "Choose ONE from: urgent, analytical, satirical, balanced, critical, celebratory, alarming, informative"
}

Rules:
1. Gist must be factual and concise (1-2 sentences max)
2. Sentiment must be exactly one of: positive, negative, neutral
3. Tone must be exactly one of the options provided
4. Return ONLY valid JSON, no additional text

JSON Response:`

// AnalysisStage turns one article into a (gist, sentiment, tone) judgment
// using the analysis model.
type AnalysisStage struct {
	generator ports.Generator
	model     string
	caller    *retry.Caller
	sleep     func(time.Duration)
	logger    *slog.Logger
}

// NewAnalysisStage wires the analysis model behind a retrying caller.
func NewAnalysisStage(generator ports.Generator, model string, caller *retry.Caller, logger *slog.Logger) *AnalysisStage {
	if caller == nil {
		caller = &retry.Caller{Logger: logger}
	}
	return &AnalysisStage{
		generator: generator,
		model:     model,
		caller:    caller,
		sleep:     time.Sleep,
		logger:    logger,
	}
}

// Analyze produces the analysis for one article. Terminal failures (input
// invalid, retries exhausted, unparseable reply) are wrapped as
// AnalysisError carrying the article id.
func (s *AnalysisStage) Analyze(ctx context.Context, article domain.Article) (domain.Analysis, error) {
	if utf8.RuneCountInString(strings.TrimSpace(article.FullText)) < minAnalyzableChars {
		return domain.Analysis{}, &domain.AnalysisError{
			ArticleID: article.ID,
			Err:       &domain.InvalidInputError{Reason: fmt.Sprintf("article %d text too short for analysis", article.ID)},
		}
	}

	s.debug("analyzing article", "article_id", article.ID, "title", article.Title)

	prompt := fmt.Sprintf(analysisPromptTemplate, article.Title, article.FullText)

	var (
		fields parse.AnalysisFields
		raw    string
	)
	op := fmt.Sprintf("analyze article %d", article.ID)
	err := s.caller.Do(ctx, op, func(ctx context.Context) error {
		reply, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		if strings.TrimSpace(reply) == "" {
			return retry.Fixed(time.Second, errEmptyResponse)
		}
		parsed, err := parse.Analysis(reply)
		if err != nil {
			return err
		}
		fields = parsed
		raw = reply
		return nil
	})
	if err != nil {
		return domain.Analysis{}, &domain.AnalysisError{ArticleID: article.ID, Err: err}
	}

	return domain.Analysis{
		ArticleID:   article.ID,
		Title:       article.Title,
		Gist:        fields.Gist,
		Sentiment:   fields.Sentiment,
		Tone:        fields.Tone,
		ModelUsed:   s.model,
		RawResponse: raw,
	}, nil
}

// AnalyzeBatch analyzes articles strictly in input order, sleeping delay
// between consecutive successful submissions (never after the last). A
// failing article yields a sentinel entry, so the output is always
// index-aligned with the input.
func (s *AnalysisStage) AnalyzeBatch(ctx context.Context, articles []domain.Article, delay time.Duration) []domain.Analysis {
	results := make([]domain.Analysis, 0, len(articles))

	for i, article := range articles {
		analysis, err := s.Analyze(ctx, article)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("analysis failed", "article_id", article.ID, "error", err)
			}
			results = append(results, domain.FailedAnalysis(article.ID, article.Title, err))
			continue
		}

		results = append(results, analysis)
		if i < len(articles)-1 && delay > 0 {
			s.sleep(delay)
		}
	}

	return results
}

func (s *AnalysisStage) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
