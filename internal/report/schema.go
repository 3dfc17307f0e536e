// internal/report/schema.go
package report

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resultDocumentSchema describes the shape of a saved benchmark run document.
// Files under the results directory that fail validation are reported rather
// than silently mis-rendered.
var resultDocumentSchema = map[string]any{
	"type":     "object",
	"required": []any{"host", "runs", "results"},
	"properties": map[string]any{
		"host": map[string]any{
			"type":     "object",
			"required": []any{"url"},
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
				"url":  map[string]any{"type": "string"},
				"type": map[string]any{"type": "string"},
			},
		},
		"runs": map[string]any{"type": "integer", "minimum": 1},
		"results": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"modelName"},
				"properties": map[string]any{
					"modelName": map[string]any{"type": "string"},
					"skipped":   map[string]any{"type": "boolean"},
					"samples":   map[string]any{"type": "array"},
					"summary":   map[string]any{"type": "object"},
				},
			},
		},
	},
}

// ValidateDocument checks raw JSON against the result document schema.
func ValidateDocument(data []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(resultDocumentSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate result document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var issues []string
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("result document is not valid: %s", strings.Join(issues, "; "))
}
