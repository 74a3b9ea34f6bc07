package respond

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldIssue describes one rejected request field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError writes a 422 carrying per-field issues when err comes
// from gin binding, or the raw message otherwise (malformed JSON etc).
func ValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		issues := make([]FieldIssue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, FieldIssue{
				Field: fieldPath(fe.Namespace()),
				Issue: issueFor(fe),
			})
		}
		Error(c, http.StatusUnprocessableEntity, "validation_error", "request validation failed", issues)
		return
	}
	Error(c, http.StatusUnprocessableEntity, "validation_error", err.Error(), nil)
}

// Issues writes a 422 with caller-built issues.
func Issues(c *gin.Context, issues []FieldIssue) {
	Error(c, http.StatusUnprocessableEntity, "validation_error", "request validation failed", issues)
}

// fieldPath drops the top-level struct name: "createRequest.Experiences[0].Title"
// becomes "Experiences[0].Title".
func fieldPath(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func issueFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return fe.Tag()
	}
}
