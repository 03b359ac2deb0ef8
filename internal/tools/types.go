// Package tools implements the MCP tool catalogue: each tool is a
// name-keyed handler taking JSON-decoded arguments and returning a
// JSON-serializable result, wired together behind the rpc.ToolRegistry
// interface.
package tools

import (
	"context"
	"fmt"

	"github.com/nullpointers/mcp-datasource/internal/rpc"
)

// HandlerFunc implements one tool's behavior.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// Tool pairs a static descriptor with its handler.
type Tool struct {
	Descriptor rpc.ToolDescriptor
	Handle     HandlerFunc
}

// Registry is the static, explicitly-constructed name -> Tool map backing
// the RPC engine's tool calls. It carries no hidden global state: callers
// build one with NewRegistry and the dependencies each tool needs.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds t to the registry. Registering the same name twice panics,
// since that can only be a wiring bug.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Descriptor.Name]; exists {
		panic(fmt.Sprintf("tools: duplicate registration for %q", t.Descriptor.Name))
	}
	r.tools[t.Descriptor.Name] = t
	r.order = append(r.order, t.Descriptor.Name)
}

// ListTools satisfies rpc.ToolRegistry.
func (r *Registry) ListTools() []rpc.ToolDescriptor {
	out := make([]rpc.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Descriptor)
	}
	return out
}

// HasTool satisfies rpc.ToolRegistry.
func (r *Registry) HasTool(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// CallTool satisfies rpc.ToolRegistry.
func (r *Registry) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tools: unknown tool %q", name)
	}
	return t.Handle(ctx, args)
}

func schema(properties map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	} else {
		s["required"] = []string{}
	}
	return s
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func boolArg(args map[string]any, key string, def bool) bool {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func stringSliceArg(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func mapArg(args map[string]any, key string) map[string]any {
	v, ok := args[key]
	if !ok || v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

func rowsArg(args map[string]any, key string) []map[string]any {
	v, ok := args[key]
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func intArg(args map[string]any, key string) (int, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
