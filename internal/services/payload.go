package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"alfredoptarigan/resume-scorer/internal/models"
)

const analysisSchemaURL = "analysis_result.json"

// analysisSchema is the structural contract for remote payloads. Values are
// range-checked after validation, not here.
const analysisSchema = `{
  "type": "object",
  "required": ["scores"],
  "properties": {
    "overallScore": {"type": ["number", "null"]},
    "scores": {
      "type": "object",
      "required": ["ats", "skills", "formatting", "content"],
      "properties": {
        "ats": {"type": "number"},
        "skills": {"type": "number"},
        "formatting": {"type": "number"},
        "content": {"type": "number"}
      }
    },
    "suggestions": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "type": {"type": "string"},
          "title": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    }
  }
}`

type remotePayload struct {
	OverallScore *float64           `mapstructure:"overallScore"`
	Scores       remoteScores       `mapstructure:"scores"`
	Suggestions  []remoteSuggestion `mapstructure:"suggestions"`
}

type remoteScores struct {
	ATS        float64 `mapstructure:"ats"`
	Skills     float64 `mapstructure:"skills"`
	Formatting float64 `mapstructure:"formatting"`
	Content    float64 `mapstructure:"content"`
}

type remoteSuggestion struct {
	Kind        string `mapstructure:"type"`
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
}

// PayloadValidator turns the remote model's raw answer into an
// AnalysisResult. Well-formed in-range payloads pass through unchanged.
type PayloadValidator struct {
	schema *jsonschema.Schema
}

func NewPayloadValidator() *PayloadValidator {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(analysisSchemaURL, strings.NewReader(analysisSchema)); err != nil {
		panic(fmt.Sprintf("add analysis schema: %v", err))
	}
	return &PayloadValidator{schema: compiler.MustCompile(analysisSchemaURL)}
}

// Parse validates raw against the analysis schema, then rounds and clamps
// scores and fills defaults: a missing overallScore becomes the mean of the
// sub-scores, a missing or unknown suggestion kind becomes "tip".
func (v *PayloadValidator) Parse(raw string) (*models.AnalysisResult, error) {
	cleaned := stripCodeFence(raw)

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, remoteError(StageParse, fmt.Errorf("failed to unmarshal JSON: %w", err))
	}

	if err := v.schema.Validate(data); err != nil {
		return nil, remoteError(StageSchema, err)
	}

	var payload remotePayload
	if err := mapstructure.Decode(data, &payload); err != nil {
		return nil, remoteError(StageSchema, fmt.Errorf("failed to decode payload: %w", err))
	}

	scores := models.ScoreSet{
		ATS:        normalizeScore(payload.Scores.ATS),
		Skills:     normalizeScore(payload.Scores.Skills),
		Formatting: normalizeScore(payload.Scores.Formatting),
		Content:    normalizeScore(payload.Scores.Content),
	}

	overall := scores.Mean()
	if payload.OverallScore != nil {
		overall = normalizeScore(*payload.OverallScore)
	}

	suggestions := make([]models.Suggestion, 0, len(payload.Suggestions))
	for _, s := range payload.Suggestions {
		kind := models.SuggestionKind(strings.ToLower(strings.TrimSpace(s.Kind)))
		if !kind.Valid() {
			kind = models.SuggestionTip
		}
		suggestions = append(suggestions, models.Suggestion{
			Kind:        kind,
			Title:       s.Title,
			Description: s.Description,
		})
	}

	return &models.AnalysisResult{
		OverallScore: overall,
		Scores:       scores,
		Suggestions:  suggestions,
	}, nil
}

func normalizeScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return clampScore(int(math.Round(math.Max(math.Min(v, 100), 0))))
}

// stripCodeFence removes a Markdown code fence wrapped around the payload.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	if idx := strings.LastIndex(raw, "```"); idx != -1 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}
