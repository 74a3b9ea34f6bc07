package main

// Run the fit analysis against local files:
//   go run ./cmd/analyze -resume cv.pdf -jd job.txt [-out result.json]

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resume-tracker/internal/analysis"
	"resume-tracker/internal/bootstrap"
	"resume-tracker/internal/extract"
	"resume-tracker/internal/llm"
	"resume-tracker/internal/shared/config"
)

func main() {
	cfg := config.Load()

	resumePath := flag.String("resume", "", "Path to resume file (pdf, docx or txt)")
	jdPath := flag.String("jd", "", "Path to job description file")
	promptVersion := flag.String("prompt-version", llm.DefaultPromptVersion, "Prompt version")
	outPath := flag.String("out", "", "Path to write the validated result (optional)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (gemini or openrouter)")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" || strings.TrimSpace(*jdPath) == "" {
		exitErr("-resume and -jd are required")
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(*provider))

	ctx := context.Background()
	resumeBytes, err := os.ReadFile(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}
	resumeText, err := extract.Text(ctx, resumeBytes, "", filepath.Base(*resumePath))
	if err != nil {
		exitErr(fmt.Sprintf("extract resume text: %v", err))
	}
	jdBytes, err := os.ReadFile(*jdPath)
	if err != nil {
		exitErr(fmt.Sprintf("read job description: %v", err))
	}

	client, model, configured, err := bootstrap.NewLLMClient(ctx, cfg)
	if err != nil {
		exitErr(err.Error())
	}
	if !configured {
		exitErr(fmt.Sprintf("no API key configured for provider %s", cfg.LLMProvider))
	}
	prompt, ok := llm.AnalysisPrompt(*promptVersion)
	if !ok {
		exitErr(fmt.Sprintf("unknown prompt version %q", *promptVersion))
	}
	schema, err := analysis.LoadSchema()
	if err != nil {
		exitErr(err.Error())
	}

	svc := &analysis.Service{
		LLM:      client,
		Provider: cfg.LLMProvider,
		Model:    model,
		Prompt:   prompt,
		Schema:   schema,
	}
	result, err := svc.AnalyzeUpload(ctx, resumeText, string(jdBytes))
	if err != nil {
		var invalid *analysis.InvalidModelResponseError
		if errors.As(err, &invalid) {
			for _, v := range invalid.Violations {
				_, _ = fmt.Fprintln(os.Stderr, v.String())
			}
			_, _ = fmt.Fprintln(os.Stderr, invalid.Payload)
		}
		exitErr(fmt.Sprintf("analyze: %v", err))
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	pretty = append(pretty, '\n')

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
