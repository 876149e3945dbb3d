package tools

import "context"

func (d Deps) healthCheck() Definition {
	return Definition{
		Name:        "HealthCheck",
		Description: "Checks that the analytics backend is reachable and healthy",
		InputSchema: objectSchema(map[string]any{}, nil),
		OutputSchema: objectSchema(map[string]any{
			"status": stringProp("Backend health status"),
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			return d.Client.Get(ctx, "/health")
		},
	}
}
