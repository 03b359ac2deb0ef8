package rpc

import "context"

// ToolDescriptor describes one callable tool: its name, human description,
// and a JSON-schema-shaped input descriptor served verbatim by tools/list.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ToolRegistry is the method-routing target for tools/list and tools/call.
// internal/tools.Registry implements this interface.
type ToolRegistry interface {
	ListTools() []ToolDescriptor
	HasTool(name string) bool
	CallTool(ctx context.Context, name string, args map[string]any) (any, error)
}

// ResourceSource answers resources/list and resources/read for the two
// static URIs the server exposes.
type ResourceSource interface {
	Sources(ctx context.Context) (any, error)
	Tables(ctx context.Context) (any, error)
}
