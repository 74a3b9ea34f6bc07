package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrGatewayNotConfigured is returned when the service has no model client.
	ErrGatewayNotConfigured = errors.New("analysis gateway not configured")

	ErrRecordNotFound  = errors.New("resume or job application not found")
	ErrResumeForbidden = errors.New("resume belongs to another user")
	ErrJobForbidden    = errors.New("job application belongs to another user")
)

// InvalidModelResponseError reports a completion that could not be parsed
// as a JSON object or that failed schema validation. Payload holds the
// offending text, pretty-printed when it parsed.
type InvalidModelResponseError struct {
	Reason     string
	Violations []Violation
	Payload    string
}

func (e *InvalidModelResponseError) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("invalid model response: %d schema violation(s), first: %s", len(e.Violations), e.Violations[0])
	}
	return "invalid model response: " + e.Reason
}

