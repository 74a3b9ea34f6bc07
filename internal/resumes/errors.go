package resumes

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("resume not found")
	ErrForbidden = errors.New("resume belongs to another user")
)

// FieldError rejects a single input field.
type FieldError struct {
	Field string
	Issue string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Issue)
}
