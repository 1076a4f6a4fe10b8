package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"NewsAnalyzer/internal/domain"
	"NewsAnalyzer/internal/retry"
)

type fakeCompleter struct {
	fn      func(prompt string) (string, error)
	calls   int
	prompts []string
}

func (c *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.calls++
	c.prompts = append(c.prompts, prompt)
	return c.fn(prompt)
}

func newTestValidationStage(completer *fakeCompleter) (*ValidationStage, *[]time.Duration) {
	var slept []time.Duration
	stage := NewValidationStage(completer, "validator-model", &retry.Caller{
		Sleep: func(d time.Duration) { slept = append(slept, d) },
	}, nil)
	stage.sleep = func(d time.Duration) { slept = append(slept, d) }
	return stage, &slept
}

func validAnalysis(id int) domain.Analysis {
	return domain.Analysis{
		ArticleID: id,
		Gist:      "Something happened.",
		Sentiment: domain.SentimentNeutral,
		Tone:      domain.ToneBalanced,
	}
}

func TestValidateRequiresArticleText(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{fn: func(string) (string, error) { return "{}", nil }}
	stage, _ := newTestValidationStage(completer)

	_, err := stage.Validate(context.Background(), domain.Article{ID: 1}, validAnalysis(1))

	var invalid *domain.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("no call expected, got %d", completer.calls)
	}
}

func TestValidateRequiresGistAndSentiment(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{fn: func(string) (string, error) { return "{}", nil }}
	stage, _ := newTestValidationStage(completer)

	article := domain.Article{ID: 1, FullText: analyzableText}
	_, err := stage.Validate(context.Background(), article, domain.Analysis{ArticleID: 1})

	var invalid *domain.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("no call expected, got %d", completer.calls)
	}
}

func TestValidateSuccess(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{fn: func(string) (string, error) {
		return `{"is_valid": false, "reasoning": "Sentiment is off.", "corrections": {"sentiment": "negative"}}`, nil
	}}
	stage, _ := newTestValidationStage(completer)

	article := domain.Article{ID: 4, Title: "Headline", FullText: analyzableText}
	validation, err := stage.Validate(context.Background(), article, validAnalysis(4))
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if validation.ArticleID != 4 || validation.Title != "Headline" {
		t.Fatalf("bookkeeping fields wrong: %+v", validation)
	}
	if validation.IsValid {
		t.Fatal("expected is_valid=false")
	}
	if validation.Corrections.Sentiment == nil || *validation.Corrections.Sentiment != "negative" {
		t.Fatalf("expected sentiment correction, got %+v", validation.Corrections)
	}
	if validation.ValidatorModel != "validator-model" {
		t.Fatalf("unexpected validator model: %q", validation.ValidatorModel)
	}
	if validation.RawValidation == "" {
		t.Fatal("raw validation must be preserved")
	}
}

func TestValidatePromptTruncatesAndDefaultsTone(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{fn: func(string) (string, error) { return "{}", nil }}
	stage, _ := newTestValidationStage(completer)

	longBody := strings.Repeat("a", 1500)
	article := domain.Article{ID: 1, Title: "T", FullText: longBody}
	analysis := validAnalysis(1)
	analysis.Tone = ""

	if _, err := stage.Validate(context.Background(), article, analysis); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	prompt := completer.prompts[0]
	if strings.Contains(prompt, longBody) {
		t.Fatal("prompt must truncate the article body to 1000 characters")
	}
	if !strings.Contains(prompt, strings.Repeat("a", 1000)) {
		t.Fatal("prompt must contain the first 1000 characters")
	}
	if !strings.Contains(prompt, "Tone: N/A") {
		t.Fatal("missing tone must render as N/A")
	}
}

func TestValidateKeywordFallbackThroughStage(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{fn: func(string) (string, error) {
		return "The analysis looks correct and accurate.", nil
	}}
	stage, _ := newTestValidationStage(completer)

	article := domain.Article{ID: 1, FullText: analyzableText}
	validation, err := stage.Validate(context.Background(), article, validAnalysis(1))
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !validation.IsValid || validation.Result != domain.ResultCorrect {
		t.Fatalf("unexpected verdict: %+v", validation)
	}
	if completer.calls != 1 {
		t.Fatalf("fallback must not trigger retries, got %d calls", completer.calls)
	}
}

func TestValidateBatchLengthMismatch(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{fn: func(string) (string, error) { return "{}", nil }}
	stage, _ := newTestValidationStage(completer)

	articles := []domain.Article{{ID: 1, FullText: analyzableText}}
	_, err := stage.ValidateBatch(context.Background(), articles, nil, 0)

	var invalid *domain.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("zero calls expected, got %d", completer.calls)
	}
}

func TestValidateBatchFailsOpen(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Unreachable") {
			return "", errors.New("api down")
		}
		return `{"is_valid": true}`, nil
	}}
	stage, _ := newTestValidationStage(completer)

	articles := []domain.Article{
		{ID: 1, Title: "Fine", FullText: analyzableText},
		{ID: 2, Title: "Unreachable", FullText: analyzableText},
	}
	analyses := []domain.Analysis{validAnalysis(1), validAnalysis(2)}

	results, err := stage.ValidateBatch(context.Background(), articles, analyses, 0)
	if err != nil {
		t.Fatalf("ValidateBatch returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("batch must stay index-aligned: got %d entries", len(results))
	}

	sentinel := results[1]
	if !sentinel.IsValid {
		t.Fatal("failed validation must default to valid")
	}
	if sentinel.Result != domain.ResultValidationFailed {
		t.Fatalf("unexpected sentinel label: %q", sentinel.Result)
	}
	if sentinel.Err == "" || !strings.HasPrefix(sentinel.Reasoning, "Error: ") {
		t.Fatalf("sentinel must record the error: %+v", sentinel)
	}
	if results[0].Err != "" {
		t.Fatal("healthy entry must not carry an error")
	}
}
