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

const analyzableText = "This body of article text is comfortably longer than thirty characters."

type fakeGenerator struct {
	fn      func(prompt string) (string, error)
	calls   int
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	return g.fn(prompt)
}

func newTestAnalysisStage(gen *fakeGenerator) (*AnalysisStage, *[]time.Duration) {
	var slept []time.Duration
	stage := NewAnalysisStage(gen, "test-model", &retry.Caller{
		Sleep: func(d time.Duration) { slept = append(slept, d) },
	}, nil)
	stage.sleep = func(d time.Duration) { slept = append(slept, d) }
	return stage, &slept
}

func TestAnalyzeRejectsShortTextBeforeAnyCall(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{fn: func(string) (string, error) { return "", nil }}
	stage, _ := newTestAnalysisStage(gen)

	article := domain.Article{ID: 7, Title: "Tiny", FullText: "   too short   "}
	_, err := stage.Analyze(context.Background(), article)

	var analysisErr *domain.AnalysisError
	if !errors.As(err, &analysisErr) {
		t.Fatalf("expected AnalysisError, got %v", err)
	}
	if analysisErr.ArticleID != 7 {
		t.Fatalf("unexpected article id: %d", analysisErr.ArticleID)
	}
	var invalid *domain.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError cause, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("no model call expected, got %d", gen.calls)
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{fn: func(string) (string, error) {
		return `{"gist": "Something happened.", "sentiment": "Positive", "tone": "urgent"}`, nil
	}}
	stage, _ := newTestAnalysisStage(gen)

	article := domain.Article{ID: 1, Title: "Headline", FullText: analyzableText}
	analysis, err := stage.Analyze(context.Background(), article)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if analysis.ArticleID != 1 || analysis.Title != "Headline" {
		t.Fatalf("bookkeeping fields wrong: %+v", analysis)
	}
	if analysis.Gist != "Something happened." {
		t.Fatalf("unexpected gist: %q", analysis.Gist)
	}
	if analysis.Sentiment != domain.SentimentPositive || analysis.Tone != domain.ToneUrgent {
		t.Fatalf("unexpected enums: %s/%s", analysis.Sentiment, analysis.Tone)
	}
	if analysis.ModelUsed != "test-model" {
		t.Fatalf("unexpected model: %q", analysis.ModelUsed)
	}
	if analysis.RawResponse == "" {
		t.Fatal("raw response must be preserved")
	}

	if !strings.Contains(gen.prompts[0], "Headline") || !strings.Contains(gen.prompts[0], analyzableText) {
		t.Fatal("prompt must embed title and full text")
	}
}

func TestAnalyzeRetriesEmptyResponse(t *testing.T) {
	t.Parallel()

	replies := []string{"", `{"gist": "g", "sentiment": "neutral", "tone": "balanced"}`}
	gen := &fakeGenerator{fn: func(string) (string, error) {
		reply := replies[0]
		replies = replies[1:]
		return reply, nil
	}}
	stage, slept := newTestAnalysisStage(gen)

	article := domain.Article{ID: 2, FullText: analyzableText}
	analysis, err := stage.Analyze(context.Background(), article)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", gen.calls)
	}
	if analysis.Tone != domain.ToneBalanced {
		t.Fatalf("unexpected tone: %s", analysis.Tone)
	}
	if len(*slept) != 1 || (*slept)[0] != time.Second {
		t.Fatalf("empty reply should back off 1s, got %v", *slept)
	}
}

func TestAnalyzeExhaustsRetries(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{fn: func(string) (string, error) {
		return "", errors.New("model unavailable")
	}}
	stage, _ := newTestAnalysisStage(gen)

	article := domain.Article{ID: 3, FullText: analyzableText}
	_, err := stage.Analyze(context.Background(), article)

	var analysisErr *domain.AnalysisError
	if !errors.As(err, &analysisErr) {
		t.Fatalf("expected AnalysisError, got %v", err)
	}
	var exhausted *retry.ExhaustedError
	if !errors.As(err, &exhausted) || exhausted.Attempts != retry.DefaultAttempts {
		t.Fatalf("expected exhausted retries, got %v", err)
	}
	if gen.calls != retry.DefaultAttempts {
		t.Fatalf("expected %d calls, got %d", retry.DefaultAttempts, gen.calls)
	}
}

func TestAnalyzeBatchSubstitutesSentinel(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Broken") {
			return "", errors.New("model unavailable")
		}
		return `{"gist": "fine", "sentiment": "positive", "tone": "informative"}`, nil
	}}
	stage, _ := newTestAnalysisStage(gen)

	articles := []domain.Article{
		{ID: 1, Title: "First", FullText: analyzableText},
		{ID: 2, Title: "Broken", FullText: analyzableText},
		{ID: 3, Title: "Third", FullText: analyzableText},
	}

	results := stage.AnalyzeBatch(context.Background(), articles, 0)

	if len(results) != len(articles) {
		t.Fatalf("batch must stay index-aligned: got %d entries", len(results))
	}
	for i, article := range articles {
		if results[i].ArticleID != article.ID {
			t.Fatalf("entry %d out of order: %+v", i, results[i])
		}
	}

	sentinel := results[1]
	if sentinel.Gist != "Analysis failed" {
		t.Fatalf("unexpected sentinel gist: %q", sentinel.Gist)
	}
	if sentinel.Sentiment != domain.SentimentNeutral || sentinel.Tone != domain.ToneInformative {
		t.Fatalf("sentinel must default enums: %+v", sentinel)
	}
	if sentinel.Err == "" {
		t.Fatal("sentinel must record the error")
	}
	if results[0].Err != "" || results[2].Err != "" {
		t.Fatal("healthy entries must not carry errors")
	}
}

func TestAnalyzeBatchDelaysBetweenSuccesses(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{fn: func(string) (string, error) {
		return `{"gist": "g", "sentiment": "neutral", "tone": "informative"}`, nil
	}}
	stage, slept := newTestAnalysisStage(gen)

	articles := []domain.Article{
		{ID: 1, FullText: analyzableText},
		{ID: 2, FullText: analyzableText},
		{ID: 3, FullText: analyzableText},
	}

	stage.AnalyzeBatch(context.Background(), articles, 500*time.Millisecond)

	// Two gaps for three items; never after the last.
	if len(*slept) != 2 {
		t.Fatalf("expected 2 delays, got %v", *slept)
	}
	for _, d := range *slept {
		if d != 500*time.Millisecond {
			t.Fatalf("unexpected delay: %v", d)
		}
	}
}
