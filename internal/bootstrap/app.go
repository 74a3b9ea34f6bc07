package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/analysis"
	"resume-tracker/internal/jobapplications"
	"resume-tracker/internal/llm"
	"resume-tracker/internal/llm/gemini"
	"resume-tracker/internal/llm/openrouter"
	"resume-tracker/internal/resumes"
	"resume-tracker/internal/services/health"
	"resume-tracker/internal/shared/auth"
	"resume-tracker/internal/shared/config"
	"resume-tracker/internal/shared/server"
	"resume-tracker/internal/shared/server/middleware"
	"resume-tracker/internal/shared/storage/db"
	"resume-tracker/internal/shared/telemetry"
	"resume-tracker/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Tokens *auth.Tokens
	LLM    llm.Client

	UsersRepo   users.Repo
	ResumesRepo resumes.Repo
	JobsRepo    jobapplications.Repo

	UsersService    *users.Service
	ResumesService  *resumes.Service
	JobsService     *jobapplications.Service
	AnalysisService *analysis.Service
	HealthService   *health.Service

	UsersHandler    *users.Handler
	ResumesHandler  *resumes.Handler
	JobsHandler     *jobapplications.Handler
	AnalysisHandler *analysis.Handler
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.Env, 0)
	if err != nil {
		return nil, err
	}

	client, model, configured, err := NewLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Tokens: tokens,
		LLM:    client,
	}

	if err := buildServices(app, model, configured); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Tokens:          app.Tokens,
		Health:          app.HealthService,
		RateLimiter:     middleware.NewRateLimiter(nil),
		UserHandler:     app.UsersHandler,
		ResumeHandler:   app.ResumesHandler,
		JobHandler:      app.JobsHandler,
		AnalysisHandler: app.AnalysisHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// NewLLMClient resolves the configured provider and reports whether a
// credential was present. A missing credential is not fatal: the returned
// client fails every call with llm.ErrNotConfigured.
func NewLLMClient(ctx context.Context, cfg config.Config) (llm.Client, string, bool, error) {
	var (
		client llm.Client
		model  string
		err    error
	)
	switch cfg.LLMProvider {
	case config.ProviderOpenRouter:
		var c *openrouter.Client
		c, err = openrouter.NewClient(openrouter.Config{
			APIKey:  cfg.OpenRouterAPIKey,
			Model:   cfg.OpenRouterModel,
			BaseURL: cfg.OpenRouterBaseURL,
			Timeout: cfg.LLMTimeout,
		})
		if err == nil {
			client, model = c, c.Model()
		}
	default:
		var c *gemini.Client
		c, err = gemini.NewClient(ctx, gemini.Config{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			APIVersion: cfg.GeminiAPIVersion,
			Timeout:    cfg.LLMTimeout,
		})
		if err == nil {
			client, model = c, c.Model()
		}
	}

	if errors.Is(err, llm.ErrNotConfigured) {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider})
		return llm.Unconfigured{Provider: cfg.LLMProvider}, "", false, nil
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("init %s client: %w", cfg.LLMProvider, err)
	}
	telemetry.Info("bootstrap.llm_ready", map[string]any{"provider": cfg.LLMProvider, "model": model})
	return client, model, true, nil
}

func buildServices(app *App, model string, llmConfigured bool) error {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.JobsRepo = &jobapplications.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.JobsRepo = jobapplications.NewMemoryRepo(app.ResumesRepo)
	}

	prompt, ok := llm.AnalysisPrompt(llm.DefaultPromptVersion)
	if !ok {
		return fmt.Errorf("analysis prompt %s missing", llm.DefaultPromptVersion)
	}
	schema, err := analysis.LoadSchema()
	if err != nil {
		return err
	}

	app.UsersService = users.NewService(app.UsersRepo, app.Tokens)
	app.ResumesService = resumes.NewService(app.ResumesRepo)
	app.JobsService = jobapplications.NewService(app.JobsRepo, app.ResumesService)
	app.AnalysisService = &analysis.Service{
		LLM:      app.LLM,
		Provider: app.Config.LLMProvider,
		Model:    model,
		Prompt:   prompt,
		Schema:   schema,
		Resumes:  app.ResumesService,
		Jobs:     app.JobsService,
	}

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.HealthService = health.NewService(pinger, app.Config.LLMProvider, llmConfigured)

	app.UsersHandler = users.NewHandler(app.UsersService)
	app.ResumesHandler = resumes.NewHandler(app.ResumesService)
	app.JobsHandler = jobapplications.NewHandler(app.JobsService)
	app.AnalysisHandler = analysis.NewHandler(app.AnalysisService)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
