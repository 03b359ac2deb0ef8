package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/nullpointers/mcp-datasource/internal/restclient"
	"github.com/nullpointers/mcp-datasource/internal/rpc"
)

// NewQueryAPITool issues an arbitrary REST call through the pooled REST
// client, with a per-call base_url override (default: the configured mock
// API URL), a per-call api_key (no key is sent when it is omitted), and
// opt-in cache invalidation on mutating verbs.
func NewQueryAPITool(pool *restclient.Pool, defaultBaseURL string) Tool {
	return Tool{
		Descriptor: rpc.ToolDescriptor{
			Name:        "query_api",
			Description: "Execute REST API calls (GET, POST, PUT, DELETE) with authentication support",
			InputSchema: schema(map[string]any{
				"method":           map[string]any{"type": "string", "enum": []string{"GET", "POST", "PUT", "DELETE"}},
				"path":             map[string]any{"type": "string"},
				"params":           map[string]any{"type": "object"},
				"json":             map[string]any{"type": "object"},
				"base_url":         map[string]any{"type": "string"},
				"api_key":          map[string]any{"type": "string"},
				"use_cache":        map[string]any{"type": "boolean"},
				"invalidate_cache": map[string]any{"type": "boolean"},
			}, "method", "path"),
		},
		Handle: func(ctx context.Context, args map[string]any) (any, error) {
			method, _ := stringArg(args, "method")
			path, _ := stringArg(args, "path")
			if method == "" || path == "" {
				return nil, fmt.Errorf("tools: query_api: `method` and `path` are required")
			}
			method = strings.ToUpper(method)

			baseURL, _ := stringArg(args, "base_url")
			if baseURL == "" {
				baseURL = defaultBaseURL
			}
			apiKey, _ := stringArg(args, "api_key")
			useCache := boolArg(args, "use_cache", true)
			invalidateCache := boolArg(args, "invalidate_cache", false)

			client := pool.Client(restclient.ClientOptions{
				BaseURL: baseURL, Credential: apiKey, AuthStyle: restclient.AuthAPIKeyHeader,
			})

			params := stringParams(mapArg(args, "params"))
			body := mapArg(args, "json")

			var (
				result any
				err    error
			)
			switch method {
			case "GET":
				result, err = client.Get(ctx, path, params, useCache)
			case "POST":
				result, err = client.Post(ctx, path, body, invalidateCache)
			case "PUT":
				result, err = client.Put(ctx, path, body, invalidateCache)
			case "DELETE":
				result, err = client.Delete(ctx, path, invalidateCache)
			default:
				return map[string]any{"success": false, "error": map[string]any{"message": "unsupported method: " + method}}, nil
			}
			if err != nil {
				return map[string]any{"success": false, "error": map[string]any{"message": err.Error()}}, nil
			}

			return map[string]any{"success": true, "method": method, "data": result}, nil
		},
	}
}

func stringParams(m map[string]any) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}
