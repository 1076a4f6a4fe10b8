// Package report renders run results into human-readable output.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"NewsAnalyzer/internal/domain"
)

// Generate renders the Markdown report: a summary of the distributions
// followed by a per-article detail section with any suggested corrections.
func Generate(results []domain.CombinedResult, stats domain.Statistics, query string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# News Analysis Report\n\n")
	fmt.Fprintf(&b, "**Date:** %s  \n", now.Format("January 2, 2006 at 3:04 PM MST"))
	fmt.Fprintf(&b, "**Query:** %s  \n", query)
	fmt.Fprintf(&b, "**Articles Analyzed:** %d  \n", len(results))
	fmt.Fprintf(&b, "**Source:** NewsAPI\n\n---\n\n")

	b.WriteString("## Summary\n\n### Sentiment Distribution\n")
	fmt.Fprintf(&b, "- **Positive:** %d articles\n", stats.SentimentDistribution[domain.SentimentPositive])
	fmt.Fprintf(&b, "- **Negative:** %d articles\n", stats.SentimentDistribution[domain.SentimentNegative])
	fmt.Fprintf(&b, "- **Neutral:** %d articles\n", stats.SentimentDistribution[domain.SentimentNeutral])

	b.WriteString("\n### Tone Distribution\n")
	for _, tone := range tonesByCount(stats.ToneDistribution) {
		fmt.Fprintf(&b, "- **%s:** %d articles\n", capitalize(string(tone)), stats.ToneDistribution[tone])
	}

	b.WriteString("\n### Validation Results\n")
	fmt.Fprintf(&b, "- **Valid Analyses:** %d / %d\n", stats.ValidationCounts.Valid, len(results))
	fmt.Fprintf(&b, "- **Issues Found:** %d / %d\n", stats.ValidationCounts.Invalid, len(results))
	b.WriteString("\n---\n\n## Detailed Analysis\n\n")

	for idx, result := range results {
		writeArticleSection(&b, idx+1, result)
	}

	return b.String()
}

func writeArticleSection(b *strings.Builder, number int, result domain.CombinedResult) {
	article := result.Article
	analysis := result.Analysis
	validation := result.Validation

	fmt.Fprintf(b, "### Article %d: %s\n\n", number, article.Title)
	fmt.Fprintf(b, "**Source:** [%s](%s)  \n", article.Source, article.URL)
	fmt.Fprintf(b, "**Published:** %s  \n", article.PublishedAt)
	fmt.Fprintf(b, "**Author:** %s\n\n", article.Author)

	fmt.Fprintf(b, "#### Analysis (LLM#1: %s)\n", analysis.ModelUsed)
	fmt.Fprintf(b, "- **Gist:** %s\n", analysis.Gist)
	fmt.Fprintf(b, "- **Sentiment:** %s\n", capitalize(string(analysis.Sentiment)))
	fmt.Fprintf(b, "- **Tone:** %s\n\n", capitalize(string(analysis.Tone)))

	fmt.Fprintf(b, "#### Validation (LLM#2: %s)\n", validation.ValidatorModel)
	fmt.Fprintf(b, "- **Result:** %s\n", validation.Result)
	fmt.Fprintf(b, "- **Reasoning:** %s\n", validation.Reasoning)

	if !validation.Corrections.Empty() {
		b.WriteString("\n**Suggested Corrections:**\n")
		writeCorrection(b, "Gist", validation.Corrections.Gist)
		writeCorrection(b, "Sentiment", validation.Corrections.Sentiment)
		writeCorrection(b, "Tone", validation.Corrections.Tone)
	}

	b.WriteString("\n---\n\n")
}

func writeCorrection(b *strings.Builder, field string, value *string) {
	if value != nil {
		fmt.Fprintf(b, "- %s: %s\n", field, *value)
	}
}

// Digest is the short statistics message pushed to notification channels.
func Digest(stats domain.Statistics) string {
	return fmt.Sprintf(
		"News analysis run complete: %d articles in %.2fs\nPositive: %d, Negative: %d, Neutral: %d\nValid: %d, Issues: %d",
		stats.TotalArticles,
		stats.DurationSeconds,
		stats.SentimentDistribution[domain.SentimentPositive],
		stats.SentimentDistribution[domain.SentimentNegative],
		stats.SentimentDistribution[domain.SentimentNeutral],
		stats.ValidationCounts.Valid,
		stats.ValidationCounts.Invalid,
	)
}

// tonesByCount orders tones by descending count, then name for stability.
func tonesByCount(distribution map[domain.Tone]int) []domain.Tone {
	tones := make([]domain.Tone, 0, len(distribution))
	for tone := range distribution {
		tones = append(tones, tone)
	}
	sort.Slice(tones, func(i, j int) bool {
		if distribution[tones[i]] != distribution[tones[j]] {
			return distribution[tones[i]] > distribution[tones[j]]
		}
		return tones[i] < tones[j]
	})
	return tones
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
