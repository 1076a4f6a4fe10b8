package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"NewsAnalyzer/internal/domain"
)

type fakeSource struct {
	articles []domain.Article
	err      error
}

func (s *fakeSource) Fetch(context.Context, string, string, int) ([]domain.Article, error) {
	return s.articles, s.err
}

type fakeOutput struct {
	jsonSaves   map[string]any
	reportSaves map[string]string
}

func newFakeOutput() *fakeOutput {
	return &fakeOutput{jsonSaves: map[string]any{}, reportSaves: map[string]string{}}
}

func (o *fakeOutput) SaveJSON(name string, v any) error {
	o.jsonSaves[name] = v
	return nil
}

func (o *fakeOutput) SaveReport(name, content string) error {
	o.reportSaves[name] = content
	return nil
}

type fakeRepository struct {
	saved []domain.CombinedResult
}

func (r *fakeRepository) SaveResults(_ context.Context, results []domain.CombinedResult) error {
	r.saved = append(r.saved, results...)
	return nil
}

type fakeNotifier struct {
	digests []string
}

func (n *fakeNotifier) PublishDigest(_ context.Context, digest string) error {
	n.digests = append(n.digests, digest)
	return nil
}

func testArticles() []domain.Article {
	return []domain.Article{
		{ID: 1, Title: "Alpha", FullText: analyzableText, URL: "https://example.org/1"},
		{ID: 2, Title: "Beta", FullText: analyzableText, URL: "https://example.org/2"},
		{ID: 3, Title: "Gamma fails", FullText: analyzableText, URL: "https://example.org/3"},
	}
}

func newTestPipeline(source *fakeSource, out *fakeOutput, repo *fakeRepository, notifier *fakeNotifier) *Pipeline {
	gen := &fakeGenerator{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Gamma fails") {
			return "", errors.New("model unavailable")
		}
		return `{"gist": "Two models agree.", "sentiment": "positive", "tone": "informative"}`, nil
	}}
	analyzer, _ := newTestAnalysisStage(gen)

	completer := &fakeCompleter{fn: func(string) (string, error) {
		return `{"is_valid": true, "reasoning": "Checks out."}`, nil
	}}
	validator, _ := newTestValidationStage(completer)

	return NewPipeline(PipelineDeps{
		Source:     source,
		Analyzer:   analyzer,
		Validator:  validator,
		Repository: repo,
		Output:     out,
		Notifier:   notifier,
	})
}

func TestPipelineRunEndToEnd(t *testing.T) {
	t.Parallel()

	source := &fakeSource{articles: testArticles()}
	out := newFakeOutput()
	repo := &fakeRepository{}
	notifier := &fakeNotifier{}
	pipeline := newTestPipeline(source, out, repo, notifier)

	summary, err := pipeline.Run(context.Background(), RunRequest{Query: "politics", MaxArticles: 3})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	stats := summary.Statistics
	if stats.TotalArticles != 3 {
		t.Fatalf("unexpected total: %d", stats.TotalArticles)
	}
	if stats.SentimentDistribution[domain.SentimentPositive] != 2 ||
		stats.SentimentDistribution[domain.SentimentNegative] != 0 ||
		stats.SentimentDistribution[domain.SentimentNeutral] != 1 {
		t.Fatalf("unexpected sentiment distribution: %+v", stats.SentimentDistribution)
	}

	// The failed item still joins its article and validation by position.
	failed := summary.Results[2]
	if failed.Article.ID != 3 || failed.Analysis.ArticleID != 3 || failed.Validation.ArticleID != 3 {
		t.Fatalf("failed item misaligned: %+v", failed)
	}
	if failed.Analysis.Err == "" || failed.Analysis.Gist != "Analysis failed" {
		t.Fatalf("expected sentinel analysis, got %+v", failed.Analysis)
	}

	for _, name := range []string{"raw_articles.json", "analysis_results.json"} {
		if _, ok := out.jsonSaves[name]; !ok {
			t.Fatalf("missing output %s", name)
		}
	}
	if _, ok := out.reportSaves["final_report.md"]; !ok {
		t.Fatal("missing final report")
	}

	if len(repo.saved) != 3 {
		t.Fatalf("expected 3 persisted results, got %d", len(repo.saved))
	}
	if len(notifier.digests) != 1 || !strings.Contains(notifier.digests[0], "3 articles") {
		t.Fatalf("unexpected digests: %v", notifier.digests)
	}
}

func TestPipelineRunFailsOnEmptyFetch(t *testing.T) {
	t.Parallel()

	source := &fakeSource{articles: nil}
	out := newFakeOutput()
	pipeline := newTestPipeline(source, out, &fakeRepository{}, &fakeNotifier{})

	_, err := pipeline.Run(context.Background(), RunRequest{Query: "nothing", MaxArticles: 5})

	var empty *domain.EmptyResultError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyResultError, got %v", err)
	}
	if len(out.jsonSaves) != 0 || len(out.reportSaves) != 0 {
		t.Fatal("no outputs expected on an aborted run")
	}
}

func TestPipelineRunPropagatesFetchError(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: errors.New("newsapi down")}
	pipeline := newTestPipeline(source, newFakeOutput(), &fakeRepository{}, &fakeNotifier{})

	_, err := pipeline.Run(context.Background(), RunRequest{Query: "politics", MaxArticles: 5})
	if err == nil || !strings.Contains(err.Error(), "fetch articles") {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}
