// Package parse normalizes free-form model replies into typed records.
// Both pipeline stages hand their raw responses here.
package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"NewsAnalyzer/internal/domain"
)

// agreementKeyword matches standalone agreement words, so negated forms
// like "incorrect" or "inaccurate" do not count as agreement.
var agreementKeyword = regexp.MustCompile(`\b(correct|accurate)\b`)

// AnalysisFields is the typed payload extracted from an analysis reply.
type AnalysisFields struct {
	Gist      string
	Sentiment domain.Sentiment
	Tone      domain.Tone
}

// Analysis parses an analysis reply. The gist, sentiment and tone keys are
// required; sentiment and tone are normalized onto their closed
// vocabularies with lenient defaults. Anything that is not a JSON object
// after fence stripping fails with MalformedResponseError.
func Analysis(raw string) (AnalysisFields, error) {
	text := stripFence(strings.TrimSpace(raw))

	var payload struct {
		Gist      *string `json:"gist"`
		Sentiment *string `json:"sentiment"`
		Tone      *string `json:"tone"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return AnalysisFields{}, &domain.MalformedResponseError{Reason: "invalid JSON", Err: err}
	}

	for _, field := range []struct {
		name  string
		value *string
	}{
		{"gist", payload.Gist},
		{"sentiment", payload.Sentiment},
		{"tone", payload.Tone},
	} {
		if field.value == nil {
			return AnalysisFields{}, &domain.MalformedResponseError{
				Reason: fmt.Sprintf("missing required field %q", field.name),
			}
		}
	}

	return AnalysisFields{
		Gist:      strings.TrimSpace(*payload.Gist),
		Sentiment: domain.NormalizeSentiment(*payload.Sentiment),
		Tone:      domain.NormalizeTone(*payload.Tone),
	}, nil
}

// Verdict is the typed payload extracted from a validation reply.
type Verdict struct {
	IsValid     bool
	Result      string
	Reasoning   string
	Corrections domain.Corrections
}

// Validation parses a validation reply. All keys are optional and filled
// with defaults. If the text is not JSON at all, a keyword heuristic over
// the lower-cased text decides the verdict; this path never fails, so the
// validation schema has no hard parse error.
func Validation(raw string) Verdict {
	text := stripFenceLines(strings.TrimSpace(raw))

	var payload struct {
		IsValid     *bool               `json:"is_valid"`
		Result      *string             `json:"result"`
		Reasoning   *string             `json:"reasoning"`
		Corrections *domain.Corrections `json:"corrections"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return keywordFallback(text)
	}

	verdict := Verdict{IsValid: true, Reasoning: "Validation completed"}
	if payload.IsValid != nil {
		verdict.IsValid = *payload.IsValid
	}
	verdict.Result = resultLabel(verdict.IsValid)
	if payload.Result != nil {
		verdict.Result = *payload.Result
	}
	if payload.Reasoning != nil {
		verdict.Reasoning = *payload.Reasoning
	}
	if payload.Corrections != nil {
		verdict.Corrections = *payload.Corrections
	}

	return verdict
}

// keywordFallback is the terminal resolution path for unparseable
// validation text: scan for agreement keywords and keep a snippet of the
// reply as the reasoning.
func keywordFallback(text string) Verdict {
	isValid := agreementKeyword.MatchString(strings.ToLower(text))

	return Verdict{
		IsValid:   isValid,
		Result:    resultLabel(isValid),
		Reasoning: truncateRunes(text, 200),
	}
}

func resultLabel(isValid bool) string {
	if isValid {
		return domain.ResultCorrect
	}
	return domain.ResultIssuesFound
}

// stripFence removes a surrounding markdown code fence: when the text
// starts with a fence marker, the first and last lines are dropped.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}

// stripFenceLines removes every line that is itself a fence marker,
// covering replies where explanatory text surrounds the fenced block.
func stripFenceLines(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
