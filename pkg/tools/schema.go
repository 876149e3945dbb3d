package tools

import "encoding/json"

// objectSchema builds a JSON Schema document for an object with the given
// properties and required names. Marshalling keys sorted keeps the
// advertised schemas byte-stable across runs.
func objectSchema(props map[string]any, required []string) []byte {
	doc := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	b, err := json.Marshal(doc)
	if err != nil {
		// props only ever holds literals assembled in this package.
		panic(err)
	}
	return b
}

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func intProp(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func stringArrayProp(desc string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": desc}
}

func objectProp(desc string) map[string]any {
	return map[string]any{"type": "object", "description": desc}
}
