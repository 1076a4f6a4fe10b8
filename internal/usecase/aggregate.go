package usecase

import (
	"time"

	"NewsAnalyzer/internal/domain"
)

// Combine zips articles, analyses and validations positionally into
// combined records. The three slices are index-aligned by construction
// (batch stages substitute sentinels instead of dropping items), so the
// alignment is not re-validated here.
func Combine(articles []domain.Article, analyses []domain.Analysis, validations []domain.Validation) []domain.CombinedResult {
	combined := make([]domain.CombinedResult, 0, len(articles))
	for i, article := range articles {
		combined = append(combined, domain.CombinedResult{
			Article:    article,
			Analysis:   analyses[i],
			Validation: validations[i],
		})
	}
	return combined
}

// ComputeStatistics folds one batch of combined results into distribution
// counts. Sentiment counts cover the full three-way vocabulary; tone counts
// only the tones that actually appear.
func ComputeStatistics(results []domain.CombinedResult, duration time.Duration) domain.Statistics {
	stats := domain.Statistics{
		TotalArticles:   len(results),
		DurationSeconds: duration.Seconds(),
		SentimentDistribution: map[domain.Sentiment]int{
			domain.SentimentPositive: 0,
			domain.SentimentNegative: 0,
			domain.SentimentNeutral:  0,
		},
		ToneDistribution: map[domain.Tone]int{},
	}

	for _, result := range results {
		if _, ok := stats.SentimentDistribution[result.Analysis.Sentiment]; ok {
			stats.SentimentDistribution[result.Analysis.Sentiment]++
		}
		stats.ToneDistribution[result.Analysis.Tone]++

		if result.Validation.IsValid {
			stats.ValidationCounts.Valid++
		} else {
			stats.ValidationCounts.Invalid++
		}
	}

	return stats
}
