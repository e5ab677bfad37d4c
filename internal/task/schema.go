package task

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// shapes holds the JSON Schema definition of every variant. Only presence
// and JSON types are described here; cardinality and cross-field rules are
// enforced by the validators so they can report precise codes.
var shapes = map[Kind]map[string]any{
	KindSingleChoice: object(
		map[string]any{
			"question":     stringType(),
			"options":      stringArray(),
			"correctIndex": integerType(),
		},
		"question", "options", "correctIndex",
	),
	KindMultipleChoice: object(
		map[string]any{
			"question": stringType(),
			"options":  stringArray(),
			"correctIndices": map[string]any{
				"type":  "array",
				"items": integerType(),
			},
		},
		"question", "options", "correctIndices",
	),
	KindOpenQuestion: object(
		map[string]any{
			"question":      stringType(),
			"correctAnswer": stringType(),
		},
		"question", "correctAnswer",
	),
	KindMatching: object(
		map[string]any{
			"instruction": stringType(),
			"leftColumn":  stringArray(),
			"rightColumn": stringArray(),
			"correctPairs": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "array",
					"items":    integerType(),
					"minItems": 2,
					"maxItems": 2,
				},
			},
		},
		"instruction", "leftColumn", "rightColumn", "correctPairs",
	),
	KindFillBlank: object(
		map[string]any{
			"textWithBlanks": stringType(),
			"blanks": map[string]any{
				"type": "array",
				"items": object(
					map[string]any{
						"position":      integerType(),
						"correctAnswer": stringType(),
					},
					"position", "correctAnswer",
				),
			},
		},
		"textWithBlanks", "blanks",
	),
}

// compiled is built once from shapes and never modified afterwards.
var compiled = mustCompileShapes()

func object(props map[string]any, required ...string) map[string]any {
	req := make([]any, len(required))
	for i, r := range required {
		req[i] = r
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   req,
	}
}

func stringType() map[string]any  { return map[string]any{"type": "string"} }
func integerType() map[string]any { return map[string]any{"type": "integer"} }

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": stringType()}
}

func mustCompileShapes() map[Kind]*jsonschema.Schema {
	out := make(map[Kind]*jsonschema.Schema, len(shapes))
	for kind, def := range shapes {
		s, err := compileShape(kind, def)
		if err != nil {
			panic(fmt.Sprintf("task: compile %s schema: %v", kind, err))
		}
		out[kind] = s
	}
	return out
}

func compileShape(kind Kind, def map[string]any) (*jsonschema.Schema, error) {
	// The compiler wants a plain decoded JSON value, so round-trip the
	// definition through encoding/json.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://task/%s.json", kind)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
}

// Shape returns the JSON Schema definition for kind, or nil for an unknown
// kind. Callers must not modify the returned map.
func Shape(kind Kind) map[string]any {
	return shapes[kind]
}
