package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/jobapplications"
	"resume-tracker/internal/llm"
	"resume-tracker/internal/resumes"
	"resume-tracker/internal/shared/auth"
	"resume-tracker/internal/shared/server/middleware"
)

type analysisRouter struct {
	router *gin.Engine
	token  string
}

func setupAnalysisRouter(t *testing.T, client llm.Client) analysisRouter {
	t.Helper()
	return setupRouterWithService(t, newTestService(t, client))
}

func setupRouterWithService(t *testing.T, svc *Service) analysisRouter {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokens("test-secret", "dev", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	token, _, err := tokens.Issue(1, "user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	group := router.Group("/api/v1", middleware.Auth(tokens))
	NewHandler(svc).RegisterRoutes(group)
	return analysisRouter{router: router, token: token}
}

func (a analysisRouter) postJSON(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)
	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, req)
	return resp
}

func errorBody(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestAnalyzeResumeStatusMapping(t *testing.T) {
	valid := string(loadFixture(t, "testdata/valid_result.json"))
	cases := map[string]struct {
		client  llm.Client
		status  int
		message string
	}{
		"valid fenced": {
			client: &stubLLM{completion: "```json\n" + valid + "\n```"},
			status: http.StatusOK,
		},
		"legacy shape": {
			client:  &stubLLM{completion: string(loadFixture(t, "testdata/legacy_result.json"))},
			status:  http.StatusBadGateway,
			message: msgInvalidResponse,
		},
		"empty completion": {
			client:  &stubLLM{completion: ""},
			status:  http.StatusBadGateway,
			message: msgInvalidResponse,
		},
		"transport failure": {
			client:  &stubLLM{err: &llm.TransportError{Provider: "stub", StatusCode: 500, Err: errors.New("boom")}},
			status:  http.StatusInternalServerError,
			message: msgUnexpected,
		},
		"not configured": {
			client:  llm.Unconfigured{Provider: "gemini"},
			status:  http.StatusInternalServerError,
			message: msgUnexpected,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			a := setupAnalysisRouter(t, tc.client)
			resp := a.postJSON(t, "/api/v1/analyze-resume", `{"resume":"Title: Backend Engineer","job_description":"Position: Backend Engineer"}`)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
			if tc.status == http.StatusOK {
				var result map[string]any
				if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
					t.Fatalf("decode result: %v", err)
				}
				if _, ok := result["job_fit_score"]; !ok {
					t.Fatalf("expected job_fit_score in %s", resp.Body.String())
				}
				return
			}
			if got := errorBody(t, resp); got != tc.message {
				t.Fatalf("expected error %q, got %q", tc.message, got)
			}
		})
	}
}

func TestAnalyzeResumeRequiresFields(t *testing.T) {
	client := &stubLLM{}
	a := setupAnalysisRouter(t, client)
	resp := a.postJSON(t, "/api/v1/analyze-resume", `{"resume":"only a resume"}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	resp = a.postJSON(t, "/api/v1/analyze-resume/job-application", `{"resume_id":1}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if client.calls.Load() != 0 {
		t.Fatalf("model must not be called for invalid requests")
	}
}

func uploadRequest(t *testing.T, token, fileName string, content []byte, jobDescription string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if fileName != "" {
		part, err := writer.CreateFormFile("resume", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if jobDescription != "" {
		if err := writer.WriteField("job_description", jobDescription); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-resume/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAnalyzeUpload(t *testing.T) {
	client := &stubLLM{completion: string(loadFixture(t, "testdata/valid_result.json"))}
	a := setupAnalysisRouter(t, client)

	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, uploadRequest(t, a.token, "resume.txt", []byte("Title: Backend Engineer\nSkills: Go"), "Go developer wanted"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	prompt, _ := client.lastPrompt.Load().(string)
	if !bytes.Contains([]byte(prompt), []byte("Skills: Go")) {
		t.Fatalf("expected extracted text in prompt")
	}

	cases := map[string]*http.Request{
		"missing file":        uploadRequest(t, a.token, "", nil, "Go developer wanted"),
		"missing description": uploadRequest(t, a.token, "resume.txt", []byte("text"), ""),
		"binary file":         uploadRequest(t, a.token, "resume.bin", []byte{0x00, 0x01, 0x02, 0xff, 0xfe}, "Go developer wanted"),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			a.router.ServeHTTP(resp, req)
			if resp.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", resp.Code, resp.Body.String())
			}
		})
	}
}

func TestAnalyzeUploadRejectsOversizedFile(t *testing.T) {
	client := &stubLLM{completion: string(loadFixture(t, "testdata/valid_result.json"))}
	a := setupAnalysisRouter(t, client)

	content := bytes.Repeat([]byte("a"), 11<<20)
	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, uploadRequest(t, a.token, "resume.txt", content, "Go developer wanted"))
	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	if body.Code != "file_too_large" {
		t.Fatalf("unexpected code %q", body.Code)
	}
	if client.calls.Load() != 0 {
		t.Fatal("model must not be called for an oversized upload")
	}
}

func TestAnalyzeJobApplicationStatusMapping(t *testing.T) {
	ctx := context.Background()
	resumeRepo := resumes.NewMemoryRepo()
	resumeSvc := resumes.NewService(resumeRepo)
	jobSvc := jobapplications.NewService(jobapplications.NewMemoryRepo(resumeRepo), resumeSvc)

	mine, err := resumeSvc.Create(ctx, 1, resumes.CreateInput{Title: "Backend Engineer"})
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}
	theirs, _ := resumeSvc.Create(ctx, 2, resumes.CreateInput{Title: "Other"})
	myJob, err := jobSvc.Create(ctx, 1, jobapplications.CreateInput{
		ResumeID: mine.ID, Company: "Acme", Position: "Engineer", Status: jobapplications.StatusApplied,
		Description: "Go services", Link: "https://acme.example",
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	theirJob, err := jobSvc.Create(ctx, 2, jobapplications.CreateInput{
		ResumeID: theirs.ID, Company: "Initech", Position: "SRE", Status: jobapplications.StatusApplying,
		Description: "Ops", Link: "https://initech.example",
	})
	if err != nil {
		t.Fatalf("create foreign job: %v", err)
	}

	client := &stubLLM{completion: string(loadFixture(t, "testdata/valid_result.json"))}
	svc := newTestService(t, client)
	svc.Resumes = resumeSvc
	svc.Jobs = jobSvc
	a := setupRouterWithService(t, svc)

	cases := []struct {
		name     string
		resumeID int64
		jobID    int64
		status   int
		message  string
	}{
		{"owned pair", mine.ID, myJob.ID, http.StatusOK, ""},
		{"foreign resume", theirs.ID, myJob.ID, http.StatusForbidden, "You do not have permission to access this resume."},
		{"foreign job", mine.ID, theirJob.ID, http.StatusForbidden, "You do not have permission to access this job application."},
		{"missing resume", 999, myJob.ID, http.StatusNotFound, "Resume or Job Description not found."},
		{"missing job", mine.ID, 999, http.StatusNotFound, "Resume or Job Description not found."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"resume_id":` + strconv.FormatInt(tc.resumeID, 10) + `,"job_application_id":` + strconv.FormatInt(tc.jobID, 10) + `}`
			resp := a.postJSON(t, "/api/v1/analyze-resume/job-application", body)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
			if tc.message != "" {
				if got := errorBody(t, resp); got != tc.message {
					t.Fatalf("expected %q, got %q", tc.message, got)
				}
				return
			}
			if !strings.Contains(resp.Body.String(), "job_fit_score") {
				t.Fatalf("expected analysis result, got %s", resp.Body.String())
			}
		})
	}
	if got := client.calls.Load(); got != 1 {
		t.Fatalf("expected one model call for the owned pair, got %d", got)
	}
}
