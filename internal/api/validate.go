package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema names a JSON Schema a backend response must satisfy.
type Schema struct {
	Name       string
	Definition map[string]any
}

var (
	categoriesSchema = &Schema{
		Name: "categories",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"categories"},
			"properties": map[string]any{
				"categories": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"slug", "name"},
						"properties": map[string]any{
							"slug": map[string]any{"type": "string", "minLength": 1},
							"name": map[string]any{"type": "string"},
							"icon": map[string]any{"type": []any{"string", "null"}},
						},
					},
				},
			},
		},
	}

	questionsSchema = &Schema{
		Name: "questions",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"questions"},
			"properties": map[string]any{
				"questions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"id", "question_type", "question_text"},
						"properties": map[string]any{
							"id": map[string]any{"type": "integer"},
							"question_type": map[string]any{
								"enum": []any{"multiple_choice", "vocabulary", "translation", "writing"},
							},
							"question_text": map[string]any{"type": "string"},
							"options": map[string]any{
								"type":  []any{"array", "null"},
								"items": map[string]any{"type": "string"},
							},
							"instructions": map[string]any{"type": []any{"string", "null"}},
							"min_words":    map[string]any{"type": []any{"integer", "null"}},
						},
					},
				},
			},
		},
	}

	detectSchema = &Schema{
		Name: "detect-ai",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"success"},
			"properties": map[string]any{
				"success":        map[string]any{"type": "boolean"},
				"ai_used":        map[string]any{"type": "boolean"},
				"detection_type": map[string]any{"type": []any{"string", "null"}},
			},
		},
	}

	submitSchema = &Schema{
		Name: "submit-exam",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"success"},
			"properties": map[string]any{
				"success": map[string]any{"type": "boolean"},
				"score": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"correct": map[string]any{"type": "integer", "minimum": 0},
						"total":   map[string]any{"type": "integer", "minimum": 0},
					},
				},
				"review": map[string]any{
					"type": []any{"array", "null"},
					"items": map[string]any{
						"type":     "object",
						"required": []any{"category"},
						"properties": map[string]any{
							"category":  map[string]any{"type": "string"},
							"isCorrect": map[string]any{"type": []any{"boolean", "null"}},
						},
					},
				},
				"aiUsageSummary": map[string]any{"type": []any{"object", "null"}},
			},
		},
	}

	healthSchema = &Schema{
		Name: "health",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"status"},
			"properties": map[string]any{
				"status":  map[string]any{"type": "string"},
				"version": map[string]any{"type": "string"},
			},
		},
	}
)

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateResponse checks raw against schema. A nil schema accepts anything
// that parses as JSON.
func validateResponse(schema *Schema, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if schema == nil {
		return nil
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, so round-trip the Go map.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
