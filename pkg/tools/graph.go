package tools

import "context"

func (d Deps) getDatasets() Definition {
	return Definition{
		Name:        "GetDatasets",
		Description: "Lists the datasets known to the analytics backend",
		InputSchema: objectSchema(map[string]any{}, nil),
		OutputSchema: objectSchema(map[string]any{
			"datasets": stringArrayProp("Dataset names"),
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			return d.Client.Get(ctx, "/datasets")
		},
	}
}

func (d Deps) getTableGraph() Definition {
	return Definition{
		Name:        "GetTableGraph",
		Description: "Builds the table/join graph for the active scope, optionally narrowed to specific datasets",
		InputSchema: d.scopedSchema(map[string]any{
			"datasets": stringArrayProp("Optional dataset names to narrow the graph"),
		}),
		OutputSchema: objectSchema(map[string]any{
			"tables": objectProp("Tables and their join edges"),
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			body := map[string]any{}
			// The datasets filter is forwarded even under a profile scope;
			// the backend intersects it with the profile's graph.
			if v, ok := args["datasets"]; ok {
				body["datasets"] = v
			}
			body, err := d.scopedBody(args, body)
			if err != nil {
				return nil, err
			}
			return d.Client.Post(ctx, "/graph", body)
		},
	}
}

func (d Deps) getDistinctValues() Definition {
	return Definition{
		Name:        "GetDistinctValues",
		Description: "Fetches distinct values of a column, useful for building filters",
		InputSchema: d.scopedSchema(map[string]any{
			"table":  stringProp("Fully qualified table name"),
			"column": stringProp("Column to enumerate"),
			"limit":  intProp("Maximum number of values to return"),
		}, "table", "column"),
		OutputSchema: objectSchema(map[string]any{
			"values": stringArrayProp("Distinct values"),
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			body := map[string]any{}
			if table, ok := stringArg(args, "table"); ok {
				body["table"] = table
			}
			if column, ok := stringArg(args, "column"); ok {
				body["column"] = column
			}
			if limit, ok := intArg(args, "limit"); ok {
				body["limit"] = limit
			}
			body, err := d.scopedBody(args, body)
			if err != nil {
				return nil, err
			}
			return d.Client.Post(ctx, "/distinct-values", body)
		},
	}
}
