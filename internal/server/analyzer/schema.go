package analyzer

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const feedbackSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["overall_score", "score_verdict", "summary_insight"],
  "properties": {
    "overall_score": {"type": "number"},
    "score_verdict": {"type": "string"},
    "summary_insight": {"type": "string"},
    "strengths": {"type": "array", "items": {"type": "string"}},
    "weaknesses": {"type": "array", "items": {"type": "string"}},
    "ats_issues": {"type": "array", "items": {"type": "string"}},
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "improved_bullets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["original", "improved"],
        "properties": {
          "original": {"type": "string"},
          "improved": {"type": "string"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(feedbackSchema)

// SchemaError lists the fields of a model response that do not match the
// feedback schema.
type SchemaError struct {
	Errors []FieldError
}

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "response does not match schema: " + strings.Join(parts, "; ")
}

// validateFeedback checks doc against the feedback schema.
func validateFeedback(doc string) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	se := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		se.Errors = append(se.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return se
}
