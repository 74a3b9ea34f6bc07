package analysis

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

// Result is a validated analysis object. Numbers are json.Number so the
// model's values pass through unchanged.
type Result map[string]any

var fencePattern = regexp.MustCompile("^```(?i:json)?[ \t]*\r?\n?|\r?\n?[ \t]*```$")

// StripFence removes a leading ``` or ```json marker and a trailing ```
// marker. Text without fences is returned trimmed but otherwise unchanged.
func StripFence(raw string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// NormalizeAndValidate turns a raw completion into a Result, or fails with
// *InvalidModelResponseError.
func NormalizeAndValidate(raw string, schema *Schema) (Result, error) {
	text := StripFence(raw)
	if text == "" {
		return nil, &InvalidModelResponseError{Reason: "empty completion"}
	}

	doc, err := decodeObject(text)
	if err != nil {
		return nil, &InvalidModelResponseError{Reason: err.Error(), Payload: text}
	}

	violations, err := schema.Validate(doc)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return nil, &InvalidModelResponseError{
			Reason:     "schema validation failed",
			Violations: violations,
			Payload:    prettyPayload(doc, text),
		}
	}
	return Result(doc), nil
}

func decodeObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, errors.New("completion is not valid JSON: " + err.Error())
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("completion is not a JSON object")
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("completion has trailing data after the JSON object")
	}
	return doc, nil
}

func prettyPayload(doc map[string]any, fallback string) string {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fallback
	}
	return string(out)
}
