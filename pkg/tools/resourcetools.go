package tools

import (
	"context"
	"encoding/json"

	"github.com/quarrylabs/quarry-mcp/pkg/resources"
)

// Resource tools go through the resource proxy rather than raw backend
// paths, so their results share the typed descriptor shape that the
// read-resource RPC operation uses.

func (d Deps) searchResources() Definition {
	return Definition{
		Name:        "SearchResources",
		Description: "Lists resources (glossary entries, taxonomies, facts), optionally filtered by a semantic query and type",
		InputSchema: objectSchema(map[string]any{
			"query": stringProp("Optional semantic search query"),
			"type":  stringProp("Optional type tag filter, e.g. glossary, taxonomy, facts"),
			"limit": intProp("Maximum number of resources to return"),
		}, nil),
		OutputSchema: objectSchema(map[string]any{
			"resources": map[string]any{"type": "array", "items": map[string]any{"type": "object"}, "description": "Matching resource descriptors"},
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			query, _ := stringArg(args, "query")
			kind, _ := stringArg(args, "type")
			limit, _ := intArg(args, "limit")
			ds, err := d.Proxy.List(ctx, query, kind, limit)
			if err != nil {
				return nil, err
			}
			return json.Marshal(map[string]any{"resources": ds})
		},
	}
}

func (d Deps) saveResource() Definition {
	return Definition{
		Name:        "SaveResource",
		Description: "Creates or replaces a resource; text content is embedded by the backend",
		InputSchema: objectSchema(map[string]any{
			"id":      stringProp("Resource identifier"),
			"name":    stringProp("Optional display name"),
			"type":    stringProp("Optional type tag"),
			"content": stringProp("Textual body; mutually exclusive with body"),
			"body":    objectProp("Structured JSON body; mutually exclusive with content"),
		}, []string{"id"}),
		OutputSchema: objectSchema(map[string]any{
			"id":   stringProp("Resource identifier"),
			"etag": stringProp("Version token assigned by the backend"),
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			desc := resources.Descriptor{}
			desc.ID, _ = stringArg(args, "id")
			desc.Name, _ = stringArg(args, "name")
			desc.Type, _ = stringArg(args, "type")
			desc.Content, _ = stringArg(args, "content")
			if body, ok := args["body"]; ok && body != nil {
				raw, err := json.Marshal(body)
				if err != nil {
					return nil, err
				}
				desc.Body = raw
			}
			saved, err := d.Proxy.Upsert(ctx, desc)
			if err != nil {
				return nil, err
			}
			return json.Marshal(saved)
		},
	}
}

func (d Deps) deleteResource() Definition {
	return Definition{
		Name:        "DeleteResource",
		Description: "Deletes a resource by identifier",
		InputSchema: objectSchema(map[string]any{
			"id": stringProp("Resource identifier"),
		}, []string{"id"}),
		OutputSchema: objectSchema(map[string]any{
			"deleted": map[string]any{"type": "boolean", "description": "Whether the resource was deleted"},
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			id, _ := stringArg(args, "id")
			if err := d.Proxy.Delete(ctx, id); err != nil {
				return nil, err
			}
			return json.Marshal(map[string]any{"deleted": true, "id": id})
		},
	}
}
