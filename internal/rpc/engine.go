package rpc

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nullpointers/mcp-datasource/internal/jsonutil"
)

const protocolVersion = "2024-11-05"

// ServerInfo identifies this server in the initialize handshake.
type ServerInfo struct {
	Name    string
	Version string
}

// AuditFunc records one audit-log line: event type, acting user, detail.
type AuditFunc func(event, user, detail string)

// Engine parses and routes JSON-RPC envelopes to the tool registry, the
// static resource catalogue, and the static prompt catalogue.
type Engine struct {
	Tools      ToolRegistry
	Resources  ResourceSource
	ServerInfo ServerInfo
	Logger     *zap.Logger
	Audit      AuditFunc
}

// New builds an Engine. logger and audit may be nil, in which case logging
// and audit recording are skipped.
func New(tools ToolRegistry, resources ResourceSource, info ServerInfo, logger *zap.Logger, audit AuditFunc) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if audit == nil {
		audit = func(string, string, string) {}
	}
	return &Engine{Tools: tools, Resources: resources, ServerInfo: info, Logger: logger, Audit: audit}
}

// HandleRaw parses one envelope from raw JSON. It returns the response bytes
// to write back, or nil if raw was a notification (no response is due).
// Parse failures still produce a response, with a null id, per the wire
// contract.
func (e *Engine) HandleRaw(ctx context.Context, raw []byte) []byte {
	requestID := uuid.NewString()
	start := time.Now()

	var req Request
	if err := jsonutil.Unmarshal(raw, &req); err != nil {
		e.Logger.Warn("parse_error", zap.String("request_id", requestID), zap.Error(err))
		resp := NewErrorResponse(nil, ParseError, "invalid JSON", map[string]any{"detail": err.Error()})
		return e.encode(resp)
	}
	if req.JSONRPC == "" {
		req.JSONRPC = "2.0"
	}

	e.Audit("request_start", "anonymous", fmt.Sprintf("method=%s request_id=%s", req.Method, requestID))
	e.Logger.Info("request_start", zap.String("request_id", requestID), zap.String("method", req.Method))

	resp := e.dispatch(ctx, &req)

	duration := time.Since(start)
	e.Logger.Info("request_end", zap.String("request_id", requestID), zap.String("method", req.Method), zap.Duration("duration", duration))
	e.Audit("request_end", "anonymous", fmt.Sprintf("method=%s request_id=%s duration_ms=%d", req.Method, requestID, duration.Milliseconds()))

	if req.IsNotification() {
		return nil
	}
	return e.encode(resp)
}

func (e *Engine) encode(resp *Response) []byte {
	data, err := jsonutil.Marshal(resp)
	if err != nil {
		// Marshaling our own Response struct should never fail; fall back to
		// a minimal hand-built envelope rather than losing the error.
		return []byte(fmt.Sprintf(`{"jsonrpc":"2.0","id":null,"error":{"code":%d,"message":%q}}`, InternalError, err.Error()))
	}
	return data
}

func (e *Engine) dispatch(ctx context.Context, req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			e.Logger.Error("handler panic", zap.Any("recovered", r))
			resp = NewErrorResponse(req.ID, InternalError, fmt.Sprintf("%v", r), map[string]any{
				"trace": string(debug.Stack()),
			})
		}
	}()

	switch req.Method {
	case "initialize":
		return NewResultResponse(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]any{
				"tools":     map[string]any{},
				"resources": map[string]any{},
				"prompts":   map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    e.ServerInfo.Name,
				"version": e.ServerInfo.Version,
			},
		})

	case "tools/list":
		return NewResultResponse(req.ID, map[string]any{"tools": e.Tools.ListTools()})

	case "tools/call":
		return e.handleToolsCall(ctx, req)

	case "resources/list":
		return e.handleResourcesList(req)

	case "resources/read":
		return e.handleResourcesRead(ctx, req)

	case "prompts/list":
		return e.handlePromptsList(req)

	case "prompts/get":
		return e.handlePromptsGet(req)

	case "notifications/initialized", "notifications/progress":
		e.Logger.Debug("notification", zap.String("method", req.Method))
		return nil

	default:
		if e.Tools.HasTool(req.Method) {
			var args map[string]any
			if len(req.Params) > 0 {
				if err := jsonutil.Unmarshal(req.Params, &args); err != nil {
					return NewErrorResponse(req.ID, InvalidParams, "invalid tool params", map[string]any{"detail": err.Error()})
				}
			}
			return e.callTool(ctx, req.ID, req.Method, args)
		}
		return NewErrorResponse(req.ID, MethodNotFound, fmt.Sprintf("unknown method %q", req.Method), nil)
	}
}

type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (e *Engine) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params toolCallParams
	if len(req.Params) > 0 {
		if err := jsonutil.Unmarshal(req.Params, &params); err != nil {
			return NewErrorResponse(req.ID, InvalidParams, "invalid tools/call params", map[string]any{"detail": err.Error()})
		}
	}
	return e.callTool(ctx, req.ID, params.Name, params.Arguments)
}

func (e *Engine) callTool(ctx context.Context, id any, name string, args map[string]any) *Response {
	if !e.Tools.HasTool(name) {
		return NewErrorResponse(id, MethodNotFound, fmt.Sprintf("unknown tool %q", name), nil)
	}
	if args == nil {
		args = map[string]any{}
	}
	result, err := e.Tools.CallTool(ctx, name, args)
	if err != nil {
		return NewErrorResponse(id, InternalError, err.Error(), map[string]any{"tool": name})
	}
	return NewResultResponse(id, result)
}

func (e *Engine) handleResourcesList(req *Request) *Response {
	return NewResultResponse(req.ID, map[string]any{
		"resources": []map[string]any{
			{"uri": "sources://all", "name": "Configured data sources", "mimeType": "application/json"},
			{"uri": "tables://all", "name": "Relational table names", "mimeType": "application/json"},
		},
	})
}

type resourceReadParams struct {
	URI string `json:"uri"`
}

func (e *Engine) handleResourcesRead(ctx context.Context, req *Request) *Response {
	var params resourceReadParams
	if len(req.Params) > 0 {
		if err := jsonutil.Unmarshal(req.Params, &params); err != nil {
			return NewErrorResponse(req.ID, InvalidParams, "invalid resources/read params", nil)
		}
	}

	var (
		payload any
		err     error
	)
	switch params.URI {
	case "sources://all":
		payload, err = e.Resources.Sources(ctx)
	case "tables://all":
		payload, err = e.Resources.Tables(ctx)
	default:
		return NewErrorResponse(req.ID, InvalidParams, fmt.Sprintf("unknown resource uri %q", params.URI), nil)
	}
	if err != nil {
		return NewErrorResponse(req.ID, InternalError, err.Error(), nil)
	}

	text, err := jsonutil.Marshal(payload)
	if err != nil {
		return NewErrorResponse(req.ID, InternalError, err.Error(), nil)
	}

	return NewResultResponse(req.ID, map[string]any{
		"contents": []map[string]any{
			{"uri": params.URI, "mimeType": "application/json", "text": string(text)},
		},
	})
}

const queryHelpPrompt = `# Querying mcp-datasource

Use search_users with a free-form query. Supported fragments, combinable with
"and"/"or":

- "email alice@example.com" — exact email match
- "id 42" or "user id 42" — exact id match
- "region EU" (or NA, APAC, LATAM) — exact region match
- "signup_date 2025-03-01" — exact signup date match
- "last month" / "previous month" — signup date range shortcut
- "name alice" — exact name match
- anything else — a substring match across id/name/email/region/signup_date

Example: "region EU and signed up last month"
`

func (e *Engine) handlePromptsList(req *Request) *Response {
	return NewResultResponse(req.ID, map[string]any{
		"prompts": []map[string]any{
			{"name": "query_help", "description": "How to phrase search_users queries"},
		},
	})
}

type promptGetParams struct {
	Name string `json:"name"`
}

func (e *Engine) handlePromptsGet(req *Request) *Response {
	var params promptGetParams
	if len(req.Params) > 0 {
		if err := jsonutil.Unmarshal(req.Params, &params); err != nil {
			return NewErrorResponse(req.ID, InvalidParams, "invalid prompts/get params", nil)
		}
	}
	if params.Name != "query_help" {
		return NewErrorResponse(req.ID, InvalidParams, fmt.Sprintf("unknown prompt %q", params.Name), nil)
	}
	return NewResultResponse(req.ID, map[string]any{
		"description": "How to phrase search_users queries",
		"messages": []map[string]any{
			{"role": "user", "content": map[string]any{"type": "text", "text": queryHelpPrompt}},
		},
	})
}
