package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is sent to the model alongside the extraction prompt and
// used locally to validate the response before we trust it.
//
// Nothing is required: absence is handled by Normalize, and a model that
// omits half the fields is still more useful than a hard failure.
func BuildRecordJSONSchema(recordTypes []string) map[string]any {
	props := map[string]any{
		"recordType":          map[string]any{"type": "string"},
		"title":               map[string]any{"type": "string"},
		"date":                map[string]any{"type": "string"},
		"provider":            map[string]any{"type": "string"},
		"description":         map[string]any{"type": "string"},
		"notes":               map[string]any{"type": "string"},
		"findings":            map[string]any{"type": "string"},
		"prescriptionDetails": map[string]any{"type": "string"},
		"contactLensDetails":  map[string]any{"type": "string"},
		"vaccine":             map[string]any{"type": "string"},
		"vaccineType":         map[string]any{"type": "string"},
		"doseNumber":          map[string]any{"type": "string"},
		"status":              map[string]any{"type": "string"},
		"name":                map[string]any{"type": "string"},
		"dosage":              map[string]any{"type": "string"},
		"frequency":           map[string]any{"type": "string"},
		"startDate":           map[string]any{"type": "string"},
		"endDate":             map[string]any{"type": "string"},
		"medicationType":      map[string]any{"type": "string"},
	}

	// Constrain recordType if a taxonomy is provided.
	if len(recordTypes) > 0 {
		props["recordType"] = map[string]any{
			"type": "string",
			"enum": recordTypes,
		}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties":           props,
	}
}

// ValidateAgainstSchema checks a model response document against a schema
// map built by BuildRecordJSONSchema. The schema is small, so compiling it
// per call is cheaper than caching would be worth.
func ValidateAgainstSchema(schemaMap map[string]any, doc []byte) error {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	raw, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.schema.json", bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("register schema: %w", err)
	}
	schema, err := compiler.Compile("record.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}
