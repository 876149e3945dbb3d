// Package dispatch is the RPC-facing core of the bridge: it resolves
// tool calls against the registry, shapes results into MCP content
// blocks (including the secondary diagram block), and reshapes resource
// reads according to their content discriminator.
package dispatch

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quarrylabs/quarry-mcp/pkg/errmodel"
	"github.com/quarrylabs/quarry-mcp/pkg/resources"
	"github.com/quarrylabs/quarry-mcp/pkg/tools"
)

// URI scheme used for resources and diagram blocks.
const (
	resourceURIPrefix = "quarry://resources/"
	diagramURIPrefix  = "quarry://diagram/"
)

// MIME types used when rendering resource contents.
const (
	textMIMEType = "text/markdown"
	jsonMIMEType = "application/json"
)

// Dispatcher routes RPC requests to the registry and the resource proxy.
// Both collaborators are read-only after startup, so a Dispatcher is safe
// for concurrent use.
type Dispatcher struct {
	registry *tools.Registry
	proxy    *resources.Proxy
	tracer   trace.Tracer
}

// New builds a Dispatcher over an already-populated registry and proxy.
func New(registry *tools.Registry, proxy *resources.Proxy) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		proxy:    proxy,
		tracer:   otel.Tracer("github.com/quarrylabs/quarry-mcp/pkg/dispatch"),
	}
}

// ListTools enumerates the registered definitions in registration order.
func (d *Dispatcher) ListTools() []tools.Definition {
	return d.registry.List()
}

// CallTool invokes a registered tool and shapes its result into content
// blocks: one text block with the serialized result, plus an optional
// secondary block produced by the definition's extractor.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]any) ([]mcp.Content, error) {
	ctx, span := d.tracer.Start(ctx, "tool.call", trace.WithAttributes(attribute.String("tool.name", name)))
	defer span.End()

	def, ok := d.registry.Get(name)
	if !ok {
		err := errmodel.Validation("unknown_tool", "unknown tool: "+name, map[string]any{"tool": name})
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := tools.ValidateArgs(name, def.InputSchema, args); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	raw, err := def.Handler(ctx, args)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	content := []mcp.Content{&mcp.TextContent{Text: string(raw)}}
	if def.Extract != nil {
		if text, ok := def.Extract.Extract(raw); ok {
			content = append(content, &mcp.EmbeddedResource{
				Resource: &mcp.ResourceContents{
					URI:      diagramURIPrefix + uuid.NewString(),
					MIMEType: def.Extract.MIMEType,
					Text:     text,
				},
			})
		}
	}
	return content, nil
}

// ListResources fetches the backend's resource list and maps it to MCP
// resource descriptors.
func (d *Dispatcher) ListResources(ctx context.Context) ([]*mcp.Resource, error) {
	ds, err := d.proxy.List(ctx, "", "", resources.DefaultListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]*mcp.Resource, 0, len(ds))
	for _, desc := range ds {
		name := desc.Name
		if name == "" {
			name = desc.ID
		}
		out = append(out, &mcp.Resource{
			URI:         ResourceURI(desc.ID),
			Name:        name,
			Description: desc.Type,
			MIMEType:    descriptorMIMEType(desc),
		})
	}
	return out, nil
}

// ReadResource fetches one resource and renders it as text or JSON
// depending on which form is authoritative.
func (d *Dispatcher) ReadResource(ctx context.Context, uri string) ([]*mcp.ResourceContents, error) {
	id, err := ResourceIDFromURI(uri)
	if err != nil {
		return nil, err
	}
	desc, err := d.proxy.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rc := &mcp.ResourceContents{URI: uri, MIMEType: descriptorMIMEType(desc)}
	if desc.Structured() {
		rc.Text = string(desc.Body)
	} else {
		rc.Text = desc.Content
	}
	return []*mcp.ResourceContents{rc}, nil
}

// ResourceURI maps a backend resource identifier to its MCP URI.
func ResourceURI(id string) string {
	return resourceURIPrefix + url.PathEscape(id)
}

// ResourceIDFromURI inverts ResourceURI. URIs outside the resource
// scheme come back as "resource not found" so a bad read never looks
// like a protocol failure.
func ResourceIDFromURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, resourceURIPrefix)
	if !ok {
		return "", resources.NotFound(uri)
	}
	id, err := url.PathUnescape(rest)
	if err != nil {
		return "", resources.NotFound(uri)
	}
	return id, nil
}

func descriptorMIMEType(d resources.Descriptor) string {
	if d.Structured() {
		return jsonMIMEType
	}
	return textMIMEType
}
