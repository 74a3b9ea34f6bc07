package analysis

import (
	"context"
	"os"
	"sync/atomic"
	"testing"

	"resume-tracker/internal/llm"
)

func loadFixture(t *testing.T, path string) []byte {
	t.Helper()
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return payload
}

// stubLLM returns a canned completion or error and records the prompts it saw.
type stubLLM struct {
	completion string
	err        error
	calls      atomic.Int32
	lastPrompt atomic.Value
}

func (s *stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls.Add(1)
	s.lastPrompt.Store(prompt)
	return s.completion, s.err
}

func newTestService(t *testing.T, client llm.Client) *Service {
	t.Helper()
	tmpl, _ := llm.AnalysisPrompt(llm.DefaultPromptVersion)
	return &Service{
		LLM:      client,
		Provider: "stub",
		Model:    "stub-model",
		Prompt:   tmpl,
		Schema:   testSchema(t),
	}
}

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := LoadSchema()
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	return s
}
