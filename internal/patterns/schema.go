package patterns

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

// buildConfigJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the pattern registry file. We validate the raw
// config against it before compiling any pattern, so a malformed file is a
// single load-time failure instead of a cascade of compile errors.
func buildConfigJSONSchema() map[string]any {
	pattern := map[string]any{"type": "string", "minLength": 1}

	lineItems := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"table_start": pattern,
			"row":         pattern,
			"table_end":   pattern,
		},
		"required": []any{"table_start", "row", "table_end"},
	}

	scalarProps := map[string]any{"line_items": lineItems}
	for _, field := range constants.ScalarFields {
		scalarProps[field] = pattern
	}
	required := make([]any, 0, len(constants.RequiredRuleFields)+1)
	for _, field := range constants.RequiredRuleFields {
		required = append(required, field)
	}
	required = append(required, "line_items")

	patterns := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           scalarProps,
		"required":             required,
	}

	ruleSet := func(requireKey bool) map[string]any {
		props := map[string]any{
			"name":     map[string]any{"type": "string", "minLength": 1},
			"match":    map[string]any{"type": "string"},
			"patterns": patterns,
		}
		required := []any{"name", "patterns"}
		if requireKey {
			props["key"] = map[string]any{"type": "string", "minLength": 1, "pattern": `^[a-z0-9_]+$`}
			required = append([]any{"key"}, required...)
		}
		return map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties":           props,
			"required":             required,
		}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"vendors": map[string]any{"type": "array", "items": ruleSet(true)},
			"generic": ruleSet(false),
		},
		"required": []any{"generic"},
	}
}

// validateConfigJSON validates data against the registry schema.
func validateConfigJSON(data []byte) error {
	b, err := json.Marshal(buildConfigJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("patterns.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("patterns.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
