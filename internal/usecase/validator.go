package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsAnalyzer/internal/domain"
	"NewsAnalyzer/internal/parse"
	"NewsAnalyzer/internal/ports"
	"NewsAnalyzer/internal/retry"
)

// promptTextLimit caps how much of the article body is quoted in the
// validation prompt; the text is truncated, not summarized.
const promptTextLimit = 1000

const validationPromptTemplate = `You are a fact-checking expert. Your job is to validate whether an AI's analysis of a news article is accurate.

**Original Article:**
Title: %s
Content: %s

**AI Analysis to Validate:**
- Gist: %s
- Sentiment: %s
- Tone: %s

**Your Task:**
Carefully compare the analysis with the article content and answer:

1. Is the gist accurate? (Does it correctly summarize the main point?)
2. Is the sentiment correct? (positive/negative/neutral)
3. Is the tone appropriate? (urgent/analytical/satirical/balanced/critical/celebratory/alarming/informative)

Respond in JSON format:
{
    "is_valid": true or false,
    "result": "✓ Correct" or "✗ Issues Found",
    "reasoning": "Brief explanation of your validation",
    "corrections": {
        "gist": "corrected gist if needed, otherwise null",
        "sentiment": "corrected sentiment if needed, otherwise null",
        "tone": "corrected tone if needed, otherwise null"
    }
}

Return ONLY valid JSON, no additional text.`

// ValidationStage cross-checks one analysis against its source article
// using the independent validation model.
type ValidationStage struct {
	completer ports.ChatCompleter
	model     string
	caller    *retry.Caller
	sleep     func(time.Duration)
	logger    *slog.Logger
}

// NewValidationStage wires the validation model behind a retrying caller.
func NewValidationStage(completer ports.ChatCompleter, model string, caller *retry.Caller, logger *slog.Logger) *ValidationStage {
	if caller == nil {
		caller = &retry.Caller{Logger: logger}
	}
	return &ValidationStage{
		completer: completer,
		model:     model,
		caller:    caller,
		sleep:     time.Sleep,
		logger:    logger,
	}
}

// Validate produces the verdict for one (article, analysis) pair. Missing
// preconditions fail fast with InvalidInputError; exhausted retries raise
// ValidationError with the article id.
func (s *ValidationStage) Validate(ctx context.Context, article domain.Article, analysis domain.Analysis) (domain.Validation, error) {
	if article.FullText == "" {
		return domain.Validation{}, &domain.InvalidInputError{Reason: "article must carry full text"}
	}
	if analysis.Gist == "" || analysis.Sentiment == "" {
		return domain.Validation{}, &domain.InvalidInputError{Reason: "analysis must carry gist and sentiment"}
	}

	s.debug("validating analysis", "article_id", article.ID, "title", article.Title)

	prompt := buildValidationPrompt(article, analysis)

	var (
		verdict parse.Verdict
		raw     string
	)
	op := fmt.Sprintf("validate article %d", article.ID)
	err := s.caller.Do(ctx, op, func(ctx context.Context) error {
		reply, err := s.completer.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		verdict = parse.Validation(reply)
		raw = reply
		return nil
	})
	if err != nil {
		return domain.Validation{}, &domain.ValidationError{ArticleID: article.ID, Err: err}
	}

	return domain.Validation{
		ArticleID:      article.ID,
		Title:          article.Title,
		IsValid:        verdict.IsValid,
		Result:         verdict.Result,
		Reasoning:      verdict.Reasoning,
		Corrections:    verdict.Corrections,
		ValidatorModel: s.model,
		RawValidation:  raw,
	}, nil
}

// ValidateBatch validates pairs strictly in input order. Mismatched list
// lengths abort immediately with zero calls performed; per-pair failures
// yield a fail-open sentinel entry instead, so the output is always
// index-aligned with the inputs.
func (s *ValidationStage) ValidateBatch(ctx context.Context, articles []domain.Article, analyses []domain.Analysis, delay time.Duration) ([]domain.Validation, error) {
	if len(articles) != len(analyses) {
		return nil, &domain.InvalidInputError{Reason: "articles and analyses lists must have same length"}
	}

	results := make([]domain.Validation, 0, len(articles))
	for i, article := range articles {
		validation, err := s.Validate(ctx, article, analyses[i])
		if err != nil {
			if s.logger != nil {
				s.logger.Error("validation failed", "article_id", article.ID, "error", err)
			}
			results = append(results, domain.FailedValidation(article.ID, article.Title, err))
			continue
		}

		results = append(results, validation)
		if i < len(articles)-1 && delay > 0 {
			s.sleep(delay)
		}
	}

	return results, nil
}

func buildValidationPrompt(article domain.Article, analysis domain.Analysis) string {
	tone := string(analysis.Tone)
	if tone == "" {
		tone = "N/A"
	}

	text := article.FullText
	if runes := []rune(text); len(runes) > promptTextLimit {
		text = string(runes[:promptTextLimit])
	}

	return fmt.Sprintf(validationPromptTemplate,
		article.Title,
		text,
		analysis.Gist,
		analysis.Sentiment,
		tone,
	)
}

func (s *ValidationStage) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
