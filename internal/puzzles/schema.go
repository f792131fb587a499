package puzzles

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"google.golang.org/genai"
)

const generatedPuzzleSchemaName = "generated-puzzle"

// generatedPuzzleSchema is what a generated puzzle must look like before
// it is trusted. Type, difficulty and points are assigned by the caller.
var generatedPuzzleSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question": map[string]any{"type": "string", "minLength": 1},
		"options": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string", "minLength": 1},
			"minItems": 2,
			"maxItems": 6,
		},
		"correctAnswer": map[string]any{"type": "integer", "minimum": 0},
		"explanation":   map[string]any{"type": "string"},
	},
	"required": []any{"question", "options", "correctAnswer", "explanation"},
}

// geminiPuzzleSchema mirrors generatedPuzzleSchema for structured output.
var geminiPuzzleSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"question":      {Type: genai.TypeString, Description: "The puzzle question"},
		"options":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"correctAnswer": {Type: genai.TypeInteger, Description: "Zero-based index into options"},
		"explanation":   {Type: genai.TypeString, Description: "Why the answer is correct"},
	},
	Required: []string{"question", "options", "correctAnswer", "explanation"},
}

var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateGenerated checks raw model output against the puzzle schema.
func validateGenerated(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	compiled, err := compiledSchema(generatedPuzzleSchemaName, generatedPuzzleSchema)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", generatedPuzzleSchemaName, err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON values.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
