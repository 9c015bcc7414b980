package models

import "math"

type SuggestionKind string

const (
	SuggestionStrength SuggestionKind = "strength"
	SuggestionWarning  SuggestionKind = "warning"
	SuggestionCritical SuggestionKind = "critical"
	SuggestionTip      SuggestionKind = "tip"
)

// Valid reports whether k is one of the known suggestion kinds.
func (k SuggestionKind) Valid() bool {
	switch k {
	case SuggestionStrength, SuggestionWarning, SuggestionCritical, SuggestionTip:
		return true
	default:
		return false
	}
}

// ScoreSet holds the four independent sub-scores, each in [0, 100].
type ScoreSet struct {
	ATS        int `json:"ats" yaml:"ats"`
	Skills     int `json:"skills" yaml:"skills"`
	Formatting int `json:"formatting" yaml:"formatting"`
	Content    int `json:"content" yaml:"content"`
}

// Mean returns the arithmetic mean of the sub-scores rounded half up.
func (s ScoreSet) Mean() int {
	sum := s.ATS + s.Skills + s.Formatting + s.Content
	return int(math.Floor(float64(sum)/4 + 0.5))
}

type Suggestion struct {
	Kind        SuggestionKind `json:"type" yaml:"type"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
}

// AnalysisResult is the assessment returned to callers. Suggestions are kept
// in the order the evaluator produced them.
type AnalysisResult struct {
	OverallScore int          `json:"overallScore" yaml:"overallScore"`
	Scores       ScoreSet     `json:"scores" yaml:"scores"`
	Suggestions  []Suggestion `json:"suggestions" yaml:"suggestions"`
}
