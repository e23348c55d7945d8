package correction

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema is the structural contract the model's JSON must satisfy
// after parsing and any repair. It is deliberately permissive about
// error object contents: missing fields degrade to unlocated errors
// rather than rejections.
const resultSchema = `{
	"type": "object",
	"required": ["correctedText"],
	"properties": {
		"correctedText": {"type": "string", "minLength": 1},
		"errors": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"type": {"type": "string"},
					"message": {"type": "string"},
					"severity": {"type": "string"},
					"original": {"type": "string"},
					"correction": {"type": "string"}
				}
			}
		}
	}
}`

var compiledResultSchema = gojsonschema.NewStringLoader(resultSchema)

// validateStructure checks a candidate JSON document against the result
// schema and returns a descriptive error naming the first violation.
func validateStructure(document string) error {
	result, err := gojsonschema.Validate(compiledResultSchema, gojsonschema.NewStringLoader(document))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("schema validation: %s", errs[0].String())
		}
		return fmt.Errorf("schema validation failed")
	}
	return nil
}
