package tools

import (
	"encoding/json"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/quarrylabs/quarry-mcp/pkg/errmodel"
)

// ValidateArgs checks args against a JSON schema (bytes). Violations come
// back as caller-input errors whose message names the offending fields,
// e.g. a missing required property.
func ValidateArgs(name string, schema []byte, args any) error {
	if len(schema) == 0 {
		return nil
	}
	c := jsonschema.NewCompiler()
	var doc any
	if err := json.Unmarshal(schema, &doc); err != nil {
		return errmodel.New(errmodel.CategorySystem, "bad_schema", "tool schema is not valid JSON: "+err.Error(), map[string]any{"tool": name})
	}
	if err := c.AddResource("mem://schema.json", doc); err != nil {
		return errmodel.New(errmodel.CategorySystem, "bad_schema", err.Error(), map[string]any{"tool": name})
	}
	sch, err := c.Compile("mem://schema.json")
	if err != nil {
		return errmodel.New(errmodel.CategorySystem, "bad_schema", err.Error(), map[string]any{"tool": name})
	}
	// Round-trip through JSON so typed Go values validate like wire data.
	b, err := json.Marshal(args)
	if err != nil {
		return errmodel.Validation("invalid_input", "arguments are not serializable: "+err.Error(), map[string]any{"tool": name})
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return errmodel.Validation("invalid_input", err.Error(), map[string]any{"tool": name})
	}
	if err := sch.Validate(v); err != nil {
		return errmodel.Validation("invalid_input", "tool input validation failed: "+err.Error(), map[string]any{"tool": name})
	}
	return nil
}
