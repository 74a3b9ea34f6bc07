package analysis

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/analysis_result.v1.json
var resultSchemaV1 []byte

// Violation is one failed schema check.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Schema validates decoded analysis results. It is safe for concurrent use.
type Schema struct {
	Version string
	schema  *gojsonschema.Schema
}

// LoadSchema compiles the embedded result schema.
func LoadSchema() (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resultSchemaV1))
	if err != nil {
		return nil, fmt.Errorf("compile analysis schema: %w", err)
	}
	return &Schema{Version: "v1", schema: compiled}, nil
}

// Validate returns every violation found in doc, sorted by field. An empty
// result means the document is acceptable.
func (s *Schema) Validate(doc map[string]any) ([]Violation, error) {
	res, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate analysis result: %w", err)
	}
	if res.Valid() {
		return nil, nil
	}
	out := make([]Violation, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		out = append(out, violationFrom(e))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out, nil
}

func violationFrom(e gojsonschema.ResultError) Violation {
	field := e.Field()
	if field == gojsonschema.STRING_CONTEXT_ROOT {
		field = ""
	}
	if e.Type() == "required" {
		if prop, ok := e.Details()["property"].(string); ok {
			field = joinField(field, prop)
		}
	}
	if field == "" {
		field = "$"
	}
	return Violation{Field: field, Rule: e.Type(), Message: e.Description()}
}

func joinField(parent, child string) string {
	if parent == "" {
		return child
	}
	return strings.Join([]string{parent, child}, ".")
}
