package tools

import (
	"context"
	"testing"

	"github.com/nullpointers/mcp-datasource/internal/rpc"
)

func TestRegistryListAndCall(t *testing.T) {
	r := NewRegistry()
	r.Register(Tool{
		Descriptor: rpc.ToolDescriptor{Name: "echo", Description: "echoes back"},
		Handle: func(_ context.Context, args map[string]any) (any, error) {
			return args, nil
		},
	})

	if !r.HasTool("echo") {
		t.Fatal("expected echo to be registered")
	}
	if r.HasTool("missing") {
		t.Error("expected missing tool to be absent")
	}

	descs := r.ListTools()
	if len(descs) != 1 || descs[0].Name != "echo" {
		t.Errorf("ListTools = %+v", descs)
	}

	result, err := r.CallTool(context.Background(), "echo", map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if m, ok := result.(map[string]any); !ok || m["x"] != 1 {
		t.Errorf("result = %+v", result)
	}

	if _, err := r.CallTool(context.Background(), "missing", nil); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestRegistryPanicsOnDuplicateName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	r := NewRegistry()
	tool := Tool{Descriptor: rpc.ToolDescriptor{Name: "dup"}, Handle: func(context.Context, map[string]any) (any, error) { return nil, nil }}
	r.Register(tool)
	r.Register(tool)
}
