package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"resume-tracker/internal/jobapplications"
	"resume-tracker/internal/llm"
	"resume-tracker/internal/resumes"
	"resume-tracker/internal/shared/metrics"
	"resume-tracker/internal/shared/telemetry"
)

// Mode labels where the analysed texts came from.
type Mode string

const (
	ModeText        Mode = "text"
	ModeApplication Mode = "job_application"
	ModeUpload      Mode = "upload"
)

const maxLoggedPayload = 2000

// ResumeReader loads a resume owned by a user. *resumes.Service satisfies it.
type ResumeReader interface {
	Get(ctx context.Context, userID, id int64) (resumes.Resume, error)
}

// JobReader loads a job application owned by a user.
// *jobapplications.Service satisfies it.
type JobReader interface {
	Get(ctx context.Context, userID, id int64) (jobapplications.JobApplication, error)
}

// Service runs the analysis pipeline: prompt, model call, validation. It
// makes exactly one model call per analysis.
type Service struct {
	LLM      llm.Client
	Provider string
	Model    string
	Prompt   llm.PromptTemplate
	Schema   *Schema

	Resumes ResumeReader
	Jobs    JobReader

	// normalize defaults to NormalizeAndValidate.
	normalize func(raw string, schema *Schema) (Result, error)
}

// AnalyzeText analyses free-form resume and job description text.
func (s *Service) AnalyzeText(ctx context.Context, resumeText, jobText string) (Result, error) {
	return s.run(ctx, ModeText, resumeText, jobText)
}

// AnalyzeUpload analyses resume text extracted from an uploaded file.
func (s *Service) AnalyzeUpload(ctx context.Context, resumeText, jobText string) (Result, error) {
	return s.run(ctx, ModeUpload, resumeText, jobText)
}

// AnalyzeRecords formats both aggregates and analyses them.
func (s *Service) AnalyzeRecords(ctx context.Context, resume resumes.Resume, job jobapplications.JobApplication) (Result, error) {
	return s.run(ctx, ModeApplication, FormatResume(resume), FormatJobApplication(job))
}

// AnalyzeApplication loads a resume and a job application on behalf of
// userID and analyses them. Ownership failures come back as
// ErrResumeForbidden or ErrJobForbidden, missing records as ErrRecordNotFound.
func (s *Service) AnalyzeApplication(ctx context.Context, userID, resumeID, jobID int64) (Result, error) {
	if s.Resumes == nil || s.Jobs == nil {
		return nil, errors.New("analysis record readers not configured")
	}
	resume, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			return nil, ErrRecordNotFound
		case errors.Is(err, resumes.ErrForbidden):
			return nil, ErrResumeForbidden
		}
		return nil, err
	}
	job, err := s.Jobs.Get(ctx, userID, jobID)
	if err != nil {
		switch {
		case errors.Is(err, jobapplications.ErrNotFound):
			return nil, ErrRecordNotFound
		case errors.Is(err, jobapplications.ErrForbidden):
			return nil, ErrJobForbidden
		}
		return nil, err
	}
	return s.AnalyzeRecords(ctx, resume, job)
}

func (s *Service) run(ctx context.Context, mode Mode, resumeText, jobText string) (Result, error) {
	if s == nil || s.LLM == nil {
		return nil, ErrGatewayNotConfigured
	}
	schema := s.Schema
	if schema == nil {
		var err error
		if schema, err = LoadSchema(); err != nil {
			return nil, err
		}
	}

	runID := runIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
	}
	prompt := BuildPrompt(s.Prompt, resumeText, jobText)
	fields := map[string]any{
		"request_id":     requestIDFromContext(ctx),
		"run_id":         runID,
		"mode":           string(mode),
		"provider":       s.Provider,
		"model":          s.Model,
		"prompt_version": s.Prompt.Version,
		"prompt_hash":    llm.HashPrompt(prompt),
		"schema_version": schema.Version,
		"resume_chars":   len(resumeText),
		"job_chars":      len(jobText),
	}

	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.started", fields)
	start := time.Now()

	raw, err := s.LLM.Complete(ctx, prompt)
	elapsed := time.Since(start)
	fields["duration_ms"] = elapsed.Milliseconds()
	if err != nil {
		fields["error"] = err.Error()
		var transportErr *llm.TransportError
		if errors.As(err, &transportErr) {
			fields["status_code"] = transportErr.StatusCode
			metrics.ObserveAnalysis(metrics.OutcomeTransportFailed, elapsed)
			telemetry.Warn("analysis.transport_failed", fields)
			return nil, err
		}
		metrics.ObserveAnalysis(metrics.OutcomeUnexpected, elapsed)
		telemetry.Error("analysis.failed", fields)
		return nil, err
	}

	normalize := s.normalize
	if normalize == nil {
		normalize = NormalizeAndValidate
	}
	result, err := normalize(raw, schema)
	if err != nil {
		var invalid *InvalidModelResponseError
		if errors.As(err, &invalid) {
			fields["reason"] = invalid.Reason
			fields["violations"] = invalid.Violations
			fields["payload"] = truncate(invalid.Payload, maxLoggedPayload)
			metrics.ObserveAnalysis(metrics.OutcomeInvalidResponse, elapsed)
			telemetry.Warn("analysis.invalid_response", fields)
			return nil, err
		}
		fields["error"] = err.Error()
		metrics.ObserveAnalysis(metrics.OutcomeUnexpected, elapsed)
		telemetry.Error("analysis.failed", fields)
		return nil, err
	}

	metrics.ObserveAnalysis(metrics.OutcomeCompleted, elapsed)
	telemetry.Info("analysis.completed", fields)
	return result, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
