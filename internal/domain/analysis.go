package domain

// Analysis is the (gist, sentiment, tone) judgment produced once per
// article by the analysis model. Sentiment and Tone always hold values
// from their closed vocabularies, never raw model text.
type Analysis struct {
	ArticleID   int       `json:"article_id"`
	Title       string    `json:"title"`
	Gist        string    `json:"gist"`
	Sentiment   Sentiment `json:"sentiment"`
	Tone        Tone      `json:"tone"`
	ModelUsed   string    `json:"model_used,omitempty"`
	RawResponse string    `json:"raw_response,omitempty"`
	Err         string    `json:"error,omitempty"`
}

// FailedAnalysis is the sentinel substituted for an article whose analysis
// failed, so batches stay index-aligned with their inputs.
func FailedAnalysis(articleID int, title string, err error) Analysis {
	return Analysis{
		ArticleID: articleID,
		Title:     title,
		Gist:      "Analysis failed",
		Sentiment: SentimentNeutral,
		Tone:      ToneInformative,
		Err:       err.Error(),
	}
}

// Corrections holds the validator's proposed replacements. A nil field
// means no change suggested for that part of the analysis.
type Corrections struct {
	Gist      *string `json:"gist"`
	Sentiment *string `json:"sentiment"`
	Tone      *string `json:"tone"`
}

// Empty reports whether no correction was proposed.
func (c Corrections) Empty() bool {
	return c.Gist == nil && c.Sentiment == nil && c.Tone == nil
}

// Validation labels produced by the validator or its sentinels.
const (
	ResultCorrect          = "✓ Correct"
	ResultIssuesFound      = "✗ Issues Found"
	ResultValidationFailed = "⚠ Validation Failed"
)

// Validation is the independent verdict on one (article, analysis) pair.
type Validation struct {
	ArticleID      int         `json:"article_id"`
	Title          string      `json:"title"`
	IsValid        bool        `json:"is_valid"`
	Result         string      `json:"validation_result"`
	Reasoning      string      `json:"reasoning"`
	Corrections    Corrections `json:"corrections"`
	ValidatorModel string      `json:"validator_model,omitempty"`
	RawValidation  string      `json:"raw_validation,omitempty"`
	Err            string      `json:"error,omitempty"`
}

// FailedValidation is the sentinel for a pair whose validation failed.
// Defaults to valid; the validator fails open.
func FailedValidation(articleID int, title string, err error) Validation {
	return Validation{
		ArticleID: articleID,
		Title:     title,
		IsValid:   true,
		Result:    ResultValidationFailed,
		Reasoning: "Error: " + err.Error(),
		Err:       err.Error(),
	}
}

// CombinedResult is the read-only join of one article with its analysis
// and validation. Batches are index-aligned with the source article list.
type CombinedResult struct {
	Article    Article    `json:"article"`
	Analysis   Analysis   `json:"analysis"`
	Validation Validation `json:"validation"`
}

// ValidationCounts splits a batch by the validator's verdict.
type ValidationCounts struct {
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// Statistics are derived distribution counts over one batch of combined
// results. Recomputed from the batch, never persisted on their own.
type Statistics struct {
	TotalArticles         int               `json:"total_articles"`
	DurationSeconds       float64           `json:"duration_seconds"`
	SentimentDistribution map[Sentiment]int `json:"sentiment_distribution"`
	ToneDistribution      map[Tone]int      `json:"tone_distribution"`
	ValidationCounts      ValidationCounts  `json:"validation_counts"`
}
