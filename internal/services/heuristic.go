package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"

	"alfredoptarigan/resume-scorer/internal/models"
)

var (
	whitespaceRun     = regexp.MustCompile(`[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]+`)
	phonePattern      = regexp.MustCompile(`\d{3}[-.]?\d{3}[-.]?\d{4}`)
	// section patterns run against foldASCII(text)
	skillsPattern     = regexp.MustCompile(`skills|technologies|proficient`)
	experiencePattern = regexp.MustCompile(`experience|work|job|position`)
	educationPattern  = regexp.MustCompile(`education|degree|university|college`)
)

var techKeywords = []string{
	"javascript", "react", "python", "sql", "css",
	"html", "git", "typescript", "node", "tailwind",
}

const bulletGlyphs = "•●○-"

// HeuristicEvaluator scores a resume offline from surface features of its
// text. It is a pure function of its inputs.
type HeuristicEvaluator interface {
	Evaluate(text, targetRole string) *models.AnalysisResult
}

type heuristicEvaluator struct {
	rules []suggestionRule
}

func NewHeuristicEvaluator() HeuristicEvaluator {
	return &heuristicEvaluator{rules: defaultSuggestionRules()}
}

type resumeFeatures struct {
	wordCount     int
	length        int
	hasEmail      bool
	hasPhone      bool
	hasSkills     bool
	hasExperience bool
	hasEducation  bool
	asciiOnly     bool
	hasNewline    bool
	hasBullet     bool
	keywordHits   int
	roleMentioned bool
	targetRole    string
}

func extractFeatures(text, targetRole string) resumeFeatures {
	lower := lowerText(text)
	folded := foldASCII(text)

	hits := 0
	for _, keyword := range techKeywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}

	return resumeFeatures{
		wordCount:     len(whitespaceRun.Split(text, -1)),
		length:        utf16Length(text),
		hasEmail:      strings.Contains(text, "@"),
		hasPhone:      phonePattern.MatchString(text),
		hasSkills:     skillsPattern.MatchString(folded),
		hasExperience: experiencePattern.MatchString(folded),
		hasEducation:  educationPattern.MatchString(folded),
		asciiOnly:     isASCII(text),
		hasNewline:    strings.Contains(text, "\n"),
		hasBullet:     strings.ContainsAny(text, bulletGlyphs),
		keywordHits:   hits,
		roleMentioned: targetRole != "" && strings.Contains(lower, lowerText(targetRole)),
		targetRole:    targetRole,
	}
}

// Evaluate implements HeuristicEvaluator.
func (h *heuristicEvaluator) Evaluate(text, targetRole string) *models.AnalysisResult {
	f := extractFeatures(text, targetRole)

	scores := models.ScoreSet{
		ATS:        atsScore(f),
		Skills:     skillsScore(f),
		Formatting: formattingScore(f),
		Content:    contentScore(f),
	}

	suggestions := make([]models.Suggestion, 0, len(h.rules))
	for _, rule := range h.rules {
		if rule.applies(f) {
			suggestions = append(suggestions, rule.suggest(f))
		}
	}

	return &models.AnalysisResult{
		OverallScore: scores.Mean(),
		Scores:       scores,
		Suggestions:  suggestions,
	}
}

func atsScore(f resumeFeatures) int {
	score := 50
	if f.hasEmail {
		score += 15
	}
	if f.hasPhone {
		score += 15
	}
	if f.length > 500 {
		score += 10
	}
	if f.asciiOnly {
		score += 10
	}
	return clampScore(score)
}

func skillsScore(f resumeFeatures) int {
	score := 40
	if f.hasSkills {
		score += 30
	}
	score += f.keywordHits * 3
	if f.roleMentioned {
		score += 10
	}
	return clampScore(score)
}

func formattingScore(f resumeFeatures) int {
	score := 50
	if f.wordCount > 200 && f.wordCount < 800 {
		score += 30
	}
	if f.hasNewline {
		score += 10
	}
	if f.hasBullet {
		score += 10
	}
	return clampScore(score)
}

func contentScore(f resumeFeatures) int {
	score := 40
	if f.hasExperience {
		score += 30
	}
	if f.hasEducation {
		score += 30
	}
	return clampScore(score)
}

// suggestionRule emits one suggestion when its predicate holds. Rules run in
// slice order, which is also the display order.
type suggestionRule struct {
	applies func(resumeFeatures) bool
	suggest func(resumeFeatures) models.Suggestion
}

func fixed(kind models.SuggestionKind, title, description string) func(resumeFeatures) models.Suggestion {
	return func(resumeFeatures) models.Suggestion {
		return models.Suggestion{Kind: kind, Title: title, Description: description}
	}
}

func defaultSuggestionRules() []suggestionRule {
	return []suggestionRule{
		{
			applies: func(f resumeFeatures) bool { return f.hasEmail && f.hasPhone },
			suggest: fixed(models.SuggestionStrength, "Contact Information Present",
				"Your resume includes email and phone number for easy recruiter contact."),
		},
		{
			applies: func(f resumeFeatures) bool { return !f.hasEmail || !f.hasPhone },
			suggest: fixed(models.SuggestionCritical, "Missing Contact Information",
				"Add both email and phone number at the top of your resume."),
		},
		{
			applies: func(f resumeFeatures) bool { return f.wordCount < 300 },
			suggest: fixed(models.SuggestionWarning, "Resume Too Short",
				"Expand your resume to 400-600 words with more detail about achievements."),
		},
		{
			applies: func(f resumeFeatures) bool { return !f.hasSkills },
			suggest: fixed(models.SuggestionCritical, "Add Skills Section",
				"Create a dedicated skills section with relevant technical and soft skills."),
		},
		{
			applies: func(f resumeFeatures) bool { return f.targetRole != "" },
			suggest: func(f resumeFeatures) models.Suggestion {
				return models.Suggestion{
					Kind:        models.SuggestionTip,
					Title:       fmt.Sprintf("Tailor for %s", f.targetRole),
					Description: fmt.Sprintf("Make sure to highlight skills and experience directly relevant to %s positions.", f.targetRole),
				}
			},
		},
		{
			applies: func(resumeFeatures) bool { return true },
			suggest: fixed(models.SuggestionTip, "Quantify Achievements",
				`Add numbers to your accomplishments (e.g., "Increased efficiency by 40%").`),
		},
	}
}

func clampScore(score int) int {
	return min(max(score, 0), 100)
}

// foldASCII lower-cases A-Z only, so that no non-ASCII rune (long s, Kelvin
// sign) can stand in for an ASCII letter of a section keyword.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// lowerText is strings.ToLower except that U+0130 lowers to "i" followed by
// a combining dot above instead of a bare "i".
func lowerText(s string) string {
	if strings.ContainsRune(s, '\u0130') {
		s = strings.ReplaceAll(s, "\u0130", "i\u0307")
	}
	return strings.ToLower(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

// utf16Length counts UTF-16 code units, the unit resume length thresholds are
// expressed in.
func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
