package tools

import (
	"context"

	"github.com/tidwall/gjson"
)

// DiagramMIMEType is the media type of the secondary content block that
// carries a SQL flow diagram.
const DiagramMIMEType = "text/vnd.mermaid"

// diagramPath locates the evidence diagram inside an execute-sql result.
const diagramPath = "evidence.sql_flow_diagram"

func (d Deps) validateSQL() Definition {
	return Definition{
		Name:        "ValidateSQL",
		Description: "Validates a SQL statement against the active scope without executing it",
		InputSchema: d.scopedSchema(map[string]any{
			"sql": stringProp("SQL statement to validate"),
		}, "sql"),
		OutputSchema: objectSchema(map[string]any{
			"valid":  map[string]any{"type": "boolean", "description": "Whether the statement is valid"},
			"errors": stringArrayProp("Validation messages, empty when valid"),
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			return d.postSQL(ctx, "/validate-sql", args)
		},
	}
}

func (d Deps) executeSQL() Definition {
	return Definition{
		Name:        "ExecuteSQL",
		Description: "Executes a SQL statement and returns rows plus execution evidence",
		InputSchema: d.scopedSchema(map[string]any{
			"sql":     stringProp("SQL statement to execute"),
			"maxRows": intProp("Row cap for the result set"),
		}, "sql"),
		OutputSchema: objectSchema(map[string]any{
			"rows":     map[string]any{"type": "array", "items": map[string]any{"type": "object"}, "description": "Result rows"},
			"evidence": objectProp("Execution evidence, including an optional sql_flow_diagram"),
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			body := map[string]any{}
			if n, ok := intArg(args, "maxRows"); ok {
				body["maxRows"] = n
			}
			return d.postSQLBody(ctx, "/execute-sql", args, body)
		},
		Extract: &Extractor{
			MIMEType: DiagramMIMEType,
			Extract: func(result []byte) (string, bool) {
				v := gjson.GetBytes(result, diagramPath)
				if v.Type != gjson.String || v.Str == "" {
					return "", false
				}
				return v.Str, true
			},
		},
	}
}

func (d Deps) suggestVisualization() Definition {
	return Definition{
		Name:        "SuggestVisualization",
		Description: "Suggests a visualization spec for a SQL statement's result shape",
		InputSchema: d.scopedSchema(map[string]any{
			"sql":      stringProp("SQL statement whose results should be visualized"),
			"question": stringProp("Optional natural-language question behind the query"),
		}, "sql"),
		OutputSchema: objectSchema(map[string]any{
			"chart": objectProp("Suggested chart specification"),
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			body := map[string]any{}
			if q, ok := stringArg(args, "question"); ok {
				body["question"] = q
			}
			return d.postSQLBody(ctx, "/suggest-viz", args, body)
		},
	}
}

func (d Deps) postSQL(ctx context.Context, path string, args map[string]any) ([]byte, error) {
	return d.postSQLBody(ctx, path, args, map[string]any{})
}

func (d Deps) postSQLBody(ctx context.Context, path string, args, body map[string]any) ([]byte, error) {
	if sql, ok := stringArg(args, "sql"); ok {
		body["sql"] = sql
	}
	body, err := d.scopedBody(args, body)
	if err != nil {
		return nil, err
	}
	return d.Client.Post(ctx, path, body)
}
