package tools

import (
	"github.com/quarrylabs/quarry-mcp/pkg/backend"
	"github.com/quarrylabs/quarry-mcp/pkg/credentials"
	"github.com/quarrylabs/quarry-mcp/pkg/resources"
)

// Deps are the collaborators the tool handlers close over.
type Deps struct {
	Client   *backend.Client
	Resolver *credentials.Resolver
	Proxy    *resources.Proxy
	// Dataset is the global dataset scope used under the legacy policy
	// when the caller supplies none.
	Dataset string
}

// NewCatalog builds the full tool registry for the active credential
// policy. Registration order defines enumeration order. The exact tool
// set varies slightly by policy: the question-bank tools are
// profile-scoped and are not offered under the legacy policy.
func NewCatalog(d Deps) (*Registry, error) {
	reg := NewRegistry()
	defs := []Definition{
		d.healthCheck(),
		d.getDatasets(),
		d.getTableGraph(),
		d.getRelevantQuestions(),
		d.getDistinctValues(),
		d.validateSQL(),
		d.executeSQL(),
		d.suggestVisualization(),
	}
	if d.Resolver.Policy() != credentials.PolicyLegacy {
		defs = append(defs, d.getQuestionBank(), d.clearQuestionBank())
	}
	defs = append(defs, d.searchResources(), d.saveResource(), d.deleteResource())

	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// identityProps returns the identity properties and required names the
// active policy injects into each profile-scoped tool schema.
func (d Deps) identityProps() (map[string]any, []string) {
	switch d.Resolver.Policy() {
	case credentials.PolicyExplicit:
		return map[string]any{
			"profileId":    stringProp("Profile (tenant/workspace) identifier"),
			"datasourceId": stringProp("Optional datasource scope within the profile"),
			"credentials":  stringProp("Serialized service-account JSON, passed through to the backend"),
		}, []string{"profileId", "credentials"}
	case credentials.PolicyEnvironment:
		return map[string]any{
			"profileId":    stringProp("Profile (tenant/workspace) identifier"),
			"datasourceId": stringProp("Optional datasource scope within the profile"),
		}, []string{"profileId"}
	default:
		return map[string]any{
			"dataset": stringProp("Dataset name; defaults to the configured global dataset"),
		}, nil
	}
}

// scopedSchema builds an input schema that combines tool-specific
// properties with the policy's identity fields.
func (d Deps) scopedSchema(props map[string]any, required ...string) []byte {
	idProps, idRequired := d.identityProps()
	merged := make(map[string]any, len(props)+len(idProps))
	for k, v := range idProps {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}
	return objectSchema(merged, append(required, idRequired...))
}

// scopedBody resolves credentials for one call and merges the bundle
// into the backend request body. Under the legacy policy the caller's
// dataset argument (or the configured global dataset) is forwarded
// instead of an identity bundle.
func (d Deps) scopedBody(args, body map[string]any) (map[string]any, error) {
	bundle, err := d.Resolver.Resolve(args)
	if err != nil {
		return nil, err
	}
	if bundle.ProfileID != "" {
		body["profileId"] = bundle.ProfileID
	}
	if bundle.DatasourceID != "" {
		body["datasourceId"] = bundle.DatasourceID
	}
	if bundle.Credentials != "" {
		body["credentials"] = bundle.Credentials
	}
	if d.Resolver.Policy() == credentials.PolicyLegacy {
		if ds, ok := stringArg(args, "dataset"); ok {
			body["dataset"] = ds
		} else if d.Dataset != "" {
			body["dataset"] = d.Dataset
		}
	}
	return body, nil
}

func stringArg(args map[string]any, key string) (string, bool) {
	s, ok := args[key].(string)
	return s, ok && s != ""
}

func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}
