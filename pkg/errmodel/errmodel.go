package errmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Category values for compact errors.
const (
	// CategoryValidation marks caller-input errors: a missing required
	// argument, an unknown tool name, an unknown resource identifier.
	CategoryValidation = "validation"
	// CategoryConfig marks server-side misconfiguration, e.g. missing
	// credential environment variables. Callers should not conflate these
	// with their own input errors.
	CategoryConfig = "config"
	// CategoryBackend marks non-2xx responses from the analytics backend.
	CategoryBackend = "backend"
	// CategoryDecode marks a backend response that was 2xx but did not
	// decode into the expected shape.
	CategoryDecode = "decode"
	CategorySystem = "system"
)

// Error is the compact error payload used across the bridge.
// It implements the error interface.
type Error struct {
	Category string         `json:"category"`
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Context  map[string]any `json:"context,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// New constructs a new compact error.
func New(category, code, message string, ctx map[string]any) *Error {
	ce := &Error{Category: category, Code: code, Message: truncate(message, 2048)}
	if len(ctx) > 0 {
		ce.Context = compactContext(ctx)
	}
	return ce
}

// From converts any error into a compact Error. If err is already *Error,
// it is returned as-is.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return &Error{Category: CategorySystem, Code: "internal", Message: truncate(err.Error(), 2048)}
}

// Validation reports a caller-input error.
func Validation(code, message string, ctx map[string]any) *Error {
	return New(CategoryValidation, code, message, ctx)
}

// Config reports a server misconfiguration.
func Config(code, message string, ctx map[string]any) *Error {
	return New(CategoryConfig, code, message, ctx)
}

// Backend reports a non-2xx backend response. The path, numeric status and
// raw body all end up in the message: they are the only classification
// signal callers get.
func Backend(path string, status int, body string) *Error {
	return &Error{
		Category: CategoryBackend,
		Code:     "http_error",
		Message:  fmt.Sprintf("backend request %s failed with status %d: %s", path, status, truncate(body, 2048)),
		Context:  map[string]any{"path": path, "status": status},
	}
}

// Decode reports a 2xx backend response whose body did not match the
// expected shape.
func Decode(path string, cause error) *Error {
	return &Error{
		Category: CategoryDecode,
		Code:     "bad_payload",
		Message:  fmt.Sprintf("decoding backend response from %s: %v", path, cause),
		Context:  map[string]any{"path": path},
	}
}

// IsCategory checks whether err belongs to a specific category.
func IsCategory(err error, category string) bool {
	ce := From(err)
	return ce != nil && strings.EqualFold(ce.Category, category)
}

// truncate trims a string to max characters.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// compactContext keeps context values small enough to ship in an RPC error.
func compactContext(ctx map[string]any) map[string]any {
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		switch t := v.(type) {
		case string:
			out[k] = truncate(t, 256)
		case int, int64, float64, bool:
			out[k] = t
		default:
			b, err := json.Marshal(t)
			if err != nil {
				out[k] = fmt.Sprintf("%v", t)
				continue
			}
			out[k] = truncate(string(b), 256)
		}
	}
	return out
}
