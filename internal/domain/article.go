package domain

import "strings"

// Article is a normalized news item produced by the article source.
// Immutable once fetched; ID is 1-based, assigned in ingestion order,
// unique within a run.
type Article struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	FullText    string `json:"full_text"`
	Source      string `json:"source"`
	Author      string `json:"author"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	FetchedAt   string `json:"fetched_at"`
}

// Sentiment is the closed three-way polarity assigned to an article.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// NormalizeSentiment maps raw model output onto the closed vocabulary.
// Out-of-vocabulary values degrade to neutral rather than failing.
func NormalizeSentiment(raw string) Sentiment {
	switch s := Sentiment(strings.TrimSpace(strings.ToLower(raw))); s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return s
	}
	return SentimentNeutral
}

// Tone is the closed-vocabulary rhetorical register assigned to an article.
type Tone string

const (
	ToneUrgent      Tone = "urgent"
	ToneAnalytical  Tone = "analytical"
	ToneSatirical   Tone = "satirical"
	ToneBalanced    Tone = "balanced"
	ToneCritical    Tone = "critical"
	ToneCelebratory Tone = "celebratory"
	ToneAlarming    Tone = "alarming"
	ToneInformative Tone = "informative"
)

var validTones = map[Tone]struct{}{
	ToneUrgent:      {},
	ToneAnalytical:  {},
	ToneSatirical:   {},
	ToneBalanced:    {},
	ToneCritical:    {},
	ToneCelebratory: {},
	ToneAlarming:    {},
	ToneInformative: {},
}

// NormalizeTone maps raw model output onto the closed vocabulary,
// defaulting to informative.
func NormalizeTone(raw string) Tone {
	tone := Tone(strings.TrimSpace(strings.ToLower(raw)))
	if _, ok := validTones[tone]; ok {
		return tone
	}
	return ToneInformative
}
