package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client sends a single-turn prompt to a generative model and returns the
// raw completion text. An absent completion is returned as "" with a nil
// error; only transport-level problems are errors.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TransportError reports a failed exchange with the model provider: network
// failure, timeout, cancellation or a non-2xx status.
type TransportError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: provider returned status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrNotConfigured is returned when no provider credential was supplied.
var ErrNotConfigured = errors.New("llm provider not configured")

// Unconfigured is the client used when the process starts without a
// provider credential. Every call fails with ErrNotConfigured.
type Unconfigured struct {
	Provider string
}

// Complete returns ErrNotConfigured.
func (u Unconfigured) Complete(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("%s: %w", u.Provider, ErrNotConfigured)
}

var _ Client = Unconfigured{}
