// Package credentials resolves the identity a tool call carries to the
// analytics backend. Three deployment policies exist; which one is active
// is decided once at startup, and a single resolver dispatches on it.
package credentials

import (
	"os"

	"github.com/quarrylabs/quarry-mcp/pkg/config"
	"github.com/quarrylabs/quarry-mcp/pkg/errmodel"
)

// Policy selects how a credential bundle is assembled.
type Policy int

const (
	// PolicyExplicit expects profileId and credentials in the tool
	// arguments on every call.
	PolicyExplicit Policy = iota
	// PolicyEnvironment expects profileId in the arguments and takes the
	// credential blob from process configuration.
	PolicyEnvironment
	// PolicyLegacy performs no resolution; tools operate against the
	// globally configured backend scope.
	PolicyLegacy
)

// ParsePolicy maps a config mode string to a Policy.
func ParsePolicy(mode string) (Policy, bool) {
	switch mode {
	case config.ModeExplicit:
		return PolicyExplicit, true
	case config.ModeEnvironment:
		return PolicyEnvironment, true
	case config.ModeLegacy:
		return PolicyLegacy, true
	}
	return 0, false
}

// Bundle is the per-request identity material for a backend call. It is
// built fresh for each invocation and must never be cached or logged.
type Bundle struct {
	ProfileID    string
	DatasourceID string
	// Credentials is an opaque serialized service-account blob, passed
	// through to the backend verbatim.
	Credentials string
}

// Zero reports whether the bundle carries no identity at all.
func (b Bundle) Zero() bool {
	return b.ProfileID == "" && b.DatasourceID == "" && b.Credentials == ""
}

// Resolver produces credential bundles under one fixed policy.
type Resolver struct {
	policy Policy

	// Environment-policy sources, captured at startup. The file named by
	// credentialsFile is read lazily at resolve time; that read is the
	// only local blocking operation in the core.
	credentialsJSON string
	credentialsFile string
}

// NewResolver builds a resolver for the given policy and configuration.
func NewResolver(policy Policy, cfg config.Config) *Resolver {
	return &Resolver{
		policy:          policy,
		credentialsJSON: cfg.CredentialsJSON,
		credentialsFile: cfg.CredentialsFile,
	}
}

// Policy returns the active policy.
func (r *Resolver) Policy() Policy { return r.policy }

// Resolve builds the bundle for one tool call from its raw arguments.
// Under PolicyLegacy it returns a zero bundle and no error.
func (r *Resolver) Resolve(args map[string]any) (Bundle, error) {
	switch r.policy {
	case PolicyLegacy:
		return Bundle{}, nil
	case PolicyExplicit:
		return r.resolveExplicit(args)
	case PolicyEnvironment:
		return r.resolveEnvironment(args)
	}
	return Bundle{}, errmodel.Config("bad_policy", "unknown credential policy", nil)
}

func (r *Resolver) resolveExplicit(args map[string]any) (Bundle, error) {
	profile, ok := stringArg(args, "profileId")
	if !ok {
		return Bundle{}, missingField("profileId")
	}
	creds, ok := stringArg(args, "credentials")
	if !ok {
		return Bundle{}, missingField("credentials")
	}
	ds, _ := stringArg(args, "datasourceId")
	return Bundle{ProfileID: profile, DatasourceID: ds, Credentials: creds}, nil
}

func (r *Resolver) resolveEnvironment(args map[string]any) (Bundle, error) {
	profile, ok := stringArg(args, "profileId")
	if !ok {
		return Bundle{}, missingField("profileId")
	}
	ds, _ := stringArg(args, "datasourceId")

	if r.credentialsJSON != "" {
		return Bundle{ProfileID: profile, DatasourceID: ds, Credentials: r.credentialsJSON}, nil
	}
	if r.credentialsFile != "" {
		blob, err := os.ReadFile(r.credentialsFile)
		if err != nil {
			return Bundle{}, errmodel.Config("credentials_file", "reading credentials file: "+err.Error(), map[string]any{"path": r.credentialsFile})
		}
		return Bundle{ProfileID: profile, DatasourceID: ds, Credentials: string(blob)}, nil
	}
	return Bundle{}, errmodel.Config("no_credentials",
		"no credential source configured: set "+config.EnvCredentialsJSON+" or "+config.EnvCredentialsFile, nil)
}

func missingField(name string) error {
	return errmodel.Validation("missing_field", "missing required identity field: "+name, map[string]any{"field": name})
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
