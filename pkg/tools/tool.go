// Package tools holds the tool catalog exposed over MCP: the definition
// type, the insertion-ordered registry, input-schema validation, and the
// handlers that forward each call to the analytics backend.
package tools

import "context"

// Handler executes one tool call. Arguments have already been checked
// against the definition's input schema; the returned bytes are the raw
// JSON result that becomes the textual content block.
type Handler func(ctx context.Context, args map[string]any) ([]byte, error)

// Extractor optionally pulls a secondary content block out of a raw tool
// result. Extract returns the block text and whether it applies; the
// dispatcher attaches MIMEType to the emitted block. Attaching extractors
// to definitions keeps multi-block output declarative instead of
// special-cased in the dispatcher.
type Extractor struct {
	MIMEType string
	Extract  func(result []byte) (string, bool)
}

// Definition declares one tool: identity, schemas and behavior.
// InputSchema and OutputSchema are JSON Schema documents in UTF-8 bytes.
// The output schema is advertisement only; results are not validated
// against it.
type Definition struct {
	Name         string
	Description  string
	InputSchema  []byte
	OutputSchema []byte
	Handler      Handler
	Extract      *Extractor
}
