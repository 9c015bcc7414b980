package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeAnalysisPrompt creates the prompt for a role-aware resume review
// that must be answered with a single JSON object.
func (pb *PromptBuilder) BuildResumeAnalysisPrompt(resumeText, jobRole string) string {
	roleContext := "Provide a general resume analysis."
	if jobRole != "" {
		roleContext = fmt.Sprintf("The candidate is applying for the role: %s. Tailor your analysis to evaluate how well the resume matches this specific position.", jobRole)
	}

	var focus string
	skillsFor := ""
	if jobRole != "" {
		focus = fmt.Sprintf(`Focus on:
- How well the resume matches the %[1]s role requirements
- Relevant skills and experience for %[1]s
- Keywords that would help for %[1]s positions
- Gaps or missing qualifications for %[1]s`, jobRole)
		skillsFor = " for " + jobRole
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert resume reviewer and ATS specialist. %s\n\n", roleContext)
	fmt.Fprintf(&b, "Resume Content:\n%s\n\n", resumeText)
	b.WriteString(`Provide your analysis in the following JSON format (respond with ONLY valid JSON, no markdown, no preamble):
{
  "overallScore": <number 0-100>,
  "scores": {
    "ats": <number 0-100>,
    "skills": <number 0-100>,
    "formatting": <number 0-100>,
    "content": <number 0-100>
  },
  "suggestions": [
    {
      "type": "strength" | "warning" | "critical" | "tip",
      "title": "Brief title",
      "description": "Detailed explanation"
    }
  ]
}

`)
	b.WriteString(focus)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, `Scoring criteria:
- ATS: Contact info present, simple formatting, keyword usage, readable by ATS systems
- Skills: Relevant skills listed, technical proficiency clear, industry-specific keywords%s
- Formatting: Clean structure, bullet points, appropriate length, easy to scan
- Content: Strong action verbs, quantified achievements, clear job progression, no gaps

Provide 6-10 specific, actionable suggestions. Include both strengths and areas for improvement.`, skillsFor)

	return b.String()
}
