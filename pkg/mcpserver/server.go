// Package mcpserver exports the dispatcher over the Model Context
// Protocol using the official Go SDK: one MCP tool per registry entry,
// plus the backend's resources.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quarrylabs/quarry-mcp/pkg/dispatch"
	"github.com/quarrylabs/quarry-mcp/pkg/tools"
)

const instructions = `Bridge to the Quarry analytics backend. Use GetTableGraph to
discover the table/join graph, ValidateSQL before ExecuteSQL, and
SearchResources for glossary and taxonomy context. ExecuteSQL results may
include a mermaid SQL flow diagram as a second content block.`

// Server wraps an mcp.Server wired to a dispatcher.
type Server struct {
	srv *mcp.Server
}

// New builds the MCP server: every registered tool definition becomes an
// MCP tool, the backend's current resource list is advertised, and a
// catch-all template keeps later-created resources readable. A failure to
// list resources at startup is logged, not fatal; the tool surface is
// still usable while the backend recovers.
func New(ctx context.Context, d *dispatch.Dispatcher, version string) (*Server, error) {
	srv := mcp.NewServer(
		&mcp.Implementation{Name: "quarry-mcp", Version: version},
		&mcp.ServerOptions{Instructions: instructions},
	)

	for _, def := range d.ListTools() {
		tool, err := toMCPTool(def)
		if err != nil {
			return nil, err
		}
		srv.AddTool(tool, callHandler(d, def.Name))
	}

	readHandler := func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		contents, err := d.ReadResource(ctx, req.Params.URI)
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{Contents: contents}, nil
	}

	listed, err := d.ListResources(ctx)
	if err != nil {
		slog.Warn("resource snapshot unavailable at startup", "error", err)
	}
	for _, r := range listed {
		srv.AddResource(r, readHandler)
	}
	srv.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "quarry://resources/{id}",
		Name:        "backend-resource",
		Description: "Resource stored in the analytics backend",
	}, readHandler)

	return &Server{srv: srv}, nil
}

// Run serves MCP over stdio until the context is canceled or the
// transport closes.
func (s *Server) Run(ctx context.Context) error {
	return s.srv.Run(ctx, &mcp.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport; tests use it
// with in-memory transports.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.srv.Connect(ctx, t, nil)
}

func toMCPTool(def tools.Definition) (*mcp.Tool, error) {
	schema := new(jsonschema.Schema)
	if err := json.Unmarshal(def.InputSchema, schema); err != nil {
		return nil, fmt.Errorf("tool %q input schema: %w", def.Name, err)
	}
	return &mcp.Tool{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: schema,
	}, nil
}

func callHandler(d *dispatch.Dispatcher, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		// Marshal round-trip keeps this agnostic to how the SDK carries
		// the raw arguments.
		b, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &args); err != nil {
			return nil, err
		}
		content, err := d.CallTool(ctx, name, args)
		if err != nil {
			return nil, err
		}
		return &mcp.CallToolResult{Content: content}, nil
	}
}
