package analysis

import (
	"strings"
	"testing"

	"resume-tracker/internal/llm"
)

func TestBuildPromptGolden(t *testing.T) {
	tmpl, ok := llm.AnalysisPrompt("v1")
	if !ok {
		t.Fatalf("expected v1 template")
	}
	got := BuildPrompt(tmpl,
		"Title: Backend Engineer\nSummary: Builds APIs\nSkills: Go, SQL",
		"Position: Backend Engineer\nCompany: Acme\nDescription: Go services",
	)
	want := string(loadFixture(t, "testdata/prompt_v1.golden"))
	if got != want {
		t.Fatalf("prompt drifted from testdata/prompt_v1.golden:\n%s", got)
	}
}

func TestBuildPromptLeavesPlaceholderLookalikesInInput(t *testing.T) {
	tmpl, _ := llm.AnalysisPrompt("v1")
	got := BuildPrompt(tmpl, "resume mentions "+llm.PlaceholderJobDescription, "the job")
	if !strings.Contains(got, "resume mentions "+llm.PlaceholderJobDescription) {
		t.Fatalf("expected placeholder text inside the resume to survive")
	}
	for _, key := range []string{"matched_skills", "job_fit_score", "career_trajectory", "recommendations"} {
		if !strings.Contains(got, key) {
			t.Fatalf("expected schema key %q in prompt", key)
		}
	}
	if strings.Contains(got, llm.PlaceholderOutputSchema) || strings.Contains(got, llm.PlaceholderResume) {
		t.Fatalf("expected all template placeholders to be filled")
	}
}
