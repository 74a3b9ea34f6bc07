package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/shared/telemetry"
)

// Keys handlers may set on the gin context to enrich the request log.
const (
	LogResumeIDKey         = "resumeId"
	LogJobApplicationIDKey = "jobApplicationId"
	LogAnalysisRunIDKey    = "analysisRunId"
)

// Logging emits one structured log line per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if id := UserIDFromContext(c); id != 0 {
			fields["user_id"] = id
		}
		for key, field := range map[string]string{
			LogResumeIDKey:         "resume_id",
			LogJobApplicationIDKey: "job_application_id",
			LogAnalysisRunIDKey:    "analysis_run_id",
		} {
			if v, ok := c.Get(key); ok {
				fields[field] = v
			}
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			telemetry.Warn("request.complete", fields)
			return
		}
		telemetry.Info("request.complete", fields)
	}
}
