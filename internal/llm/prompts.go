package llm

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
)

// Placeholders substituted by the prompt builder.
const (
	PlaceholderResume         = "{{RESUME}}"
	PlaceholderJobDescription = "{{JOB_DESCRIPTION}}"
	PlaceholderOutputSchema   = "{{OUTPUT_SCHEMA}}"
)

// DefaultPromptVersion is the analysis prompt served when none is requested.
const DefaultPromptVersion = "v1"

var (
	//go:embed prompts/analysis_v1.txt
	analysisV1 string
	//go:embed prompts/analysis_v1_schema.txt
	analysisV1Schema string
)

// PromptTemplate is a versioned instruction template and the output-schema
// block it embeds.
type PromptTemplate struct {
	Version string
	Body    string
	Schema  string
}

// AnalysisPrompt returns the template for version and whether the version was
// recognized. Unknown versions fall back to the default.
func AnalysisPrompt(version string) (PromptTemplate, bool) {
	switch version {
	case "v1", "":
		return PromptTemplate{Version: "v1", Body: analysisV1, Schema: analysisV1Schema}, version != ""
	default:
		return PromptTemplate{Version: "v1", Body: analysisV1, Schema: analysisV1Schema}, false
	}
}

// HashPrompt returns the hex SHA-256 of a rendered prompt, used to trace
// which exact prompt produced a completion.
func HashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
