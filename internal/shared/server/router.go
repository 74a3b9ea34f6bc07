package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/analysis"
	"resume-tracker/internal/jobapplications"
	"resume-tracker/internal/resumes"
	"resume-tracker/internal/services/health"
	"resume-tracker/internal/shared/config"
	"resume-tracker/internal/shared/metrics"
	"resume-tracker/internal/shared/server/middleware"
	"resume-tracker/internal/shared/server/respond"
	"resume-tracker/internal/users"
)

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Config          config.Config
	Tokens          middleware.TokenVerifier
	Health          *health.Service
	RateLimiter     *middleware.RateLimiter
	UserHandler     *users.Handler
	ResumeHandler   *resumes.Handler
	JobHandler      *jobapplications.Handler
	AnalysisHandler *analysis.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := health.Status{OK: true, Database: "memory", LLM: "unconfigured"}
		if deps.Health != nil {
			status = deps.Health.Check(c.Request.Context())
		}
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	api.GET("/metrics", metrics.Handler())

	if deps.UserHandler != nil {
		deps.UserHandler.RegisterPublicRoutes(api)
	}

	authed := api.Group("", middleware.Auth(deps.Tokens))
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(authed)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(authed)
	}
	if deps.JobHandler != nil {
		deps.JobHandler.RegisterRoutes(authed)
	}
	if deps.AnalysisHandler != nil {
		rule := middleware.PerMinute(deps.Config.AnalyzeRatePerMinute, deps.Config.AnalyzeRateBurst)
		limited := authed.Group("", middleware.RateLimit("analyze", rule, deps.RateLimiter))
		deps.AnalysisHandler.RegisterRoutes(limited)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
