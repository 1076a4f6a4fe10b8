package domain

import "fmt"

// InvalidInputError reports a violated precondition. It is never retried
// and never absorbed into a sentinel at the single-item level.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// MalformedResponseError reports a model reply that could not be parsed
// as the expected structured form after best-effort cleanup.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// AnalysisError wraps any terminal analysis failure with the article id.
type AnalysisError struct {
	ArticleID int
	Err       error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyze article %d: %v", e.ArticleID, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// ValidationError wraps a terminal validation failure with the article id.
type ValidationError struct {
	ArticleID int
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate article %d: %v", e.ArticleID, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// EmptyResultError aborts a run when the source returned zero articles.
type EmptyResultError struct {
	Query string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no articles fetched for query %q", e.Query)
}
