package analysis

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-tracker/internal/extract"
	"resume-tracker/internal/llm"
	"resume-tracker/internal/shared/server/middleware"
	"resume-tracker/internal/shared/server/respond"
	"resume-tracker/internal/shared/telemetry"
)

const maxUploadSize = 10 << 20 // 10MB

const (
	msgInvalidResponse = "AI analysis failed due to unexpected response. Please try again."
	msgUnexpected      = "An unexpected error occurred."
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze-resume", h.analyzeText)
	rg.POST("/analyze-resume/job-application", h.analyzeApplication)
	rg.POST("/analyze-resume/upload", h.analyzeUpload)
}

type textRequest struct {
	Resume         string `json:"resume" binding:"required"`
	JobDescription string `json:"job_description" binding:"required"`
}

type applicationRequest struct {
	ResumeID         int64 `json:"resume_id" binding:"required,gt=0"`
	JobApplicationID int64 `json:"job_application_id" binding:"required,gt=0"`
}

func (h *Handler) analyzeText(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}
	result, err := h.Svc.AnalyzeText(h.runContext(c), req.Resume, req.JobDescription)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) analyzeApplication(c *gin.Context) {
	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}
	c.Set(middleware.LogResumeIDKey, req.ResumeID)
	c.Set(middleware.LogJobApplicationIDKey, req.JobApplicationID)

	userID := middleware.UserIDFromContext(c)
	result, err := h.Svc.AnalyzeApplication(h.runContext(c), userID, req.ResumeID, req.JobApplicationID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) analyzeUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	jobText := strings.TrimSpace(c.PostForm("job_description"))
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "resume file exceeds 10MB", nil)
			return
		}
		respond.Issues(c, []respond.FieldIssue{{Field: "resume", Issue: "required"}})
		return
	}
	if jobText == "" {
		respond.Issues(c, []respond.FieldIssue{{Field: "job_description", Issue: "required"}})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx := h.runContext(c)
	resumeText, err := extract.Text(ctx, data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(c, err)
			return
		}
		telemetry.Warn("analysis.extract_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"file_name":  fileHeader.Filename,
			"size_bytes": len(data),
			"error":      err.Error(),
		})
		issue := "could not extract text from file"
		if errors.Is(err, extract.ErrUnsupportedType) {
			issue = "must be a PDF, DOCX or plain text file"
		}
		respond.Issues(c, []respond.FieldIssue{{Field: "resume", Issue: issue}})
		return
	}

	result, err := h.Svc.AnalyzeUpload(ctx, resumeText, jobText)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, result)
}

// runContext tags the request context with a fresh run id and the request
// id, and exposes the run id to the request log.
func (h *Handler) runContext(c *gin.Context) context.Context {
	runID := uuid.NewString()
	c.Set(middleware.LogAnalysisRunIDKey, runID)
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	return WithRunID(ctx, runID)
}

func writeError(c *gin.Context, err error) {
	var (
		invalid      *InvalidModelResponseError
		transportErr *llm.TransportError
	)
	switch {
	case errors.As(err, &invalid):
		respond.Error(c, http.StatusBadGateway, "invalid_model_response", msgInvalidResponse, nil)
	case errors.Is(err, ErrRecordNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume or Job Description not found.", nil)
	case errors.Is(err, ErrResumeForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "You do not have permission to access this resume.", nil)
	case errors.Is(err, ErrJobForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "You do not have permission to access this job application.", nil)
	case errors.As(err, &transportErr):
		respond.Error(c, http.StatusInternalServerError, "llm_unavailable", msgUnexpected, nil)
	case errors.Is(err, ErrGatewayNotConfigured), errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusInternalServerError, "llm_not_configured", msgUnexpected, nil)
	default:
		telemetry.Error("analysis.unexpected", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal", msgUnexpected, nil)
	}
}
