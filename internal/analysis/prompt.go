package analysis

import (
	"strings"

	"resume-tracker/internal/llm"
)

// BuildPrompt fills the template's placeholders in a single pass, so text
// inside the resume or job description that looks like a placeholder is
// left alone.
func BuildPrompt(tmpl llm.PromptTemplate, resumeText, jobText string) string {
	r := strings.NewReplacer(
		llm.PlaceholderResume, resumeText,
		llm.PlaceholderJobDescription, jobText,
		llm.PlaceholderOutputSchema, strings.TrimSpace(tmpl.Schema),
	)
	return r.Replace(tmpl.Body)
}
