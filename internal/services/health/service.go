package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports liveness and which backends the process is wired to.
type Service struct {
	DB            Pinger
	LLMProvider   string
	LLMConfigured bool
	PingTimeout   time.Duration
}

// NewService constructs a health service. db may be nil when running on
// in-memory repositories.
func NewService(db Pinger, provider string, llmConfigured bool) *Service {
	return &Service{DB: db, LLMProvider: provider, LLMConfigured: llmConfigured, PingTimeout: 2 * time.Second}
}

// Status is the /health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	LLM      string `json:"llm"`
}

// Check pings the database if one is configured. OK is false only when the
// database is configured and unreachable.
func (s *Service) Check(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", LLM: "unconfigured"}
	if s.LLMConfigured {
		st.LLM = s.LLMProvider
	}
	if s.DB == nil {
		return st
	}
	timeout := s.PingTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		st.OK = false
		st.Database = "unreachable"
		return st
	}
	st.Database = "ok"
	return st
}
