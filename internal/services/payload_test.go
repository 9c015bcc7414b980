package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-scorer/internal/models"
)

func TestPayloadValidatorPassesThroughInRangePayload(t *testing.T) {
	raw := `{
		"overallScore": 70,
		"scores": {"ats": 85, "skills": 80, "formatting": 78, "content": 84},
		"suggestions": [
			{"type": "strength", "title": "Clear layout", "description": "Sections are easy to scan."},
			{"type": "critical", "title": "No metrics", "description": "Quantify outcomes."}
		]
	}`

	result, err := NewPayloadValidator().Parse(raw)

	require.NoError(t, err)
	assert.Equal(t, &models.AnalysisResult{
		OverallScore: 70,
		Scores:       models.ScoreSet{ATS: 85, Skills: 80, Formatting: 78, Content: 84},
		Suggestions: []models.Suggestion{
			{Kind: models.SuggestionStrength, Title: "Clear layout", Description: "Sections are easy to scan."},
			{Kind: models.SuggestionCritical, Title: "No metrics", Description: "Quantify outcomes."},
		},
	}, result)
}

func TestPayloadValidatorNormalizes(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *models.AnalysisResult
	}{
		{
			name: "code fence is stripped",
			raw:  "```json\n{\"overallScore\": 50, \"scores\": {\"ats\": 50, \"skills\": 50, \"formatting\": 50, \"content\": 50}, \"suggestions\": []}\n```",
			expected: &models.AnalysisResult{
				OverallScore: 50,
				Scores:       models.ScoreSet{ATS: 50, Skills: 50, Formatting: 50, Content: 50},
				Suggestions:  []models.Suggestion{},
			},
		},
		{
			name: "missing overall score becomes the mean",
			raw:  `{"scores": {"ats": 85, "skills": 80, "formatting": 78, "content": 84}}`,
			expected: &models.AnalysisResult{
				OverallScore: 82,
				Scores:       models.ScoreSet{ATS: 85, Skills: 80, Formatting: 78, Content: 84},
				Suggestions:  []models.Suggestion{},
			},
		},
		{
			name: "out of range and fractional scores",
			raw:  `{"overallScore": 120.4, "scores": {"ats": 140, "skills": -5, "formatting": 72.6, "content": 49.5}, "suggestions": null}`,
			expected: &models.AnalysisResult{
				OverallScore: 100,
				Scores:       models.ScoreSet{ATS: 100, Skills: 0, Formatting: 73, Content: 50},
				Suggestions:  []models.Suggestion{},
			},
		},
		{
			name: "unknown or missing suggestion kinds become tips",
			raw: `{"overallScore": 60, "scores": {"ats": 60, "skills": 60, "formatting": 60, "content": 60},
				"suggestions": [{"type": "info", "title": "a"}, {"title": "b"}, {"type": " Warning ", "title": "c"}]}`,
			expected: &models.AnalysisResult{
				OverallScore: 60,
				Scores:       models.ScoreSet{ATS: 60, Skills: 60, Formatting: 60, Content: 60},
				Suggestions: []models.Suggestion{
					{Kind: models.SuggestionTip, Title: "a"},
					{Kind: models.SuggestionTip, Title: "b"},
					{Kind: models.SuggestionWarning, Title: "c"},
				},
			},
		},
	}

	validator := NewPayloadValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPayloadValidatorRejects(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		stage string
	}{
		{name: "not json", raw: "I think this resume is great!", stage: StageParse},
		{name: "truncated json", raw: `{"scores": {"ats": 80`, stage: StageParse},
		{name: "top level array", raw: `[1, 2, 3]`, stage: StageSchema},
		{name: "missing scores", raw: `{"overallScore": 80}`, stage: StageSchema},
		{name: "missing sub-score", raw: `{"scores": {"ats": 80, "skills": 80, "formatting": 80}}`, stage: StageSchema},
		{name: "partial scores are not defaulted", raw: `{"overallScore": 88, "scores": {"ats": 90, "skills": 85}}`, stage: StageSchema},
		{name: "non-numeric sub-score", raw: `{"scores": {"ats": "high", "skills": 80, "formatting": 80, "content": 80}}`, stage: StageSchema},
		{name: "suggestion is not an object", raw: `{"scores": {"ats": 1, "skills": 1, "formatting": 1, "content": 1}, "suggestions": ["fix it"]}`, stage: StageSchema},
	}

	validator := NewPayloadValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.Parse(tt.raw)
			assert.Nil(t, result)

			var remoteErr *RemoteEvaluationError
			require.True(t, errors.As(err, &remoteErr))
			assert.Equal(t, tt.stage, remoteErr.Stage)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1}  "))
}
