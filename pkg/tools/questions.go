package tools

import (
	"context"
	"net/url"
)

func (d Deps) getRelevantQuestions() Definition {
	return Definition{
		Name:        "GetRelevantQuestions",
		Description: "Returns questions from the question bank that are relevant to the given question",
		InputSchema: d.scopedSchema(map[string]any{
			"question": stringProp("Natural-language question to match against"),
			"limit":    intProp("Maximum number of questions to return"),
		}, "question"),
		OutputSchema: objectSchema(map[string]any{
			"questions": stringArrayProp("Relevant questions, most similar first"),
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			body := map[string]any{}
			if q, ok := stringArg(args, "question"); ok {
				body["question"] = q
			}
			if n, ok := intArg(args, "limit"); ok {
				body["limit"] = n
			}
			body, err := d.scopedBody(args, body)
			if err != nil {
				return nil, err
			}
			return d.Client.Post(ctx, "/relevant-questions", body)
		},
	}
}

// The question-bank tools are keyed by profile alone: the identifier
// rides in the URL path and no credential blob is involved.

func (d Deps) getQuestionBank() Definition {
	return Definition{
		Name:        "GetQuestionBank",
		Description: "Fetches the stored question bank for a profile",
		InputSchema: objectSchema(map[string]any{
			"profileId": stringProp("Profile (tenant/workspace) identifier"),
		}, []string{"profileId"}),
		OutputSchema: objectSchema(map[string]any{
			"questions": stringArrayProp("Stored questions"),
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			profile, _ := stringArg(args, "profileId")
			return d.Client.Get(ctx, "/question-bank/"+url.PathEscape(profile))
		},
	}
}

func (d Deps) clearQuestionBank() Definition {
	return Definition{
		Name:        "ClearQuestionBank",
		Description: "Deletes the stored question bank for a profile",
		InputSchema: objectSchema(map[string]any{
			"profileId": stringProp("Profile (tenant/workspace) identifier"),
		}, []string{"profileId"}),
		OutputSchema: objectSchema(map[string]any{
			"deleted": map[string]any{"type": "boolean", "description": "Whether the bank was deleted"},
		}, nil),
		Handler: func(ctx context.Context, args map[string]any) ([]byte, error) {
			profile, _ := stringArg(args, "profileId")
			return d.Client.Delete(ctx, "/question-bank/"+url.PathEscape(profile))
		},
	}
}
