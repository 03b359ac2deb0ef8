package rpc

import (
	"context"
	"strings"
	"testing"

	"github.com/nullpointers/mcp-datasource/internal/jsonutil"
)

type fakeTools struct {
	descriptors []ToolDescriptor
	calls       map[string]func(args map[string]any) (any, error)
}

func (f *fakeTools) ListTools() []ToolDescriptor { return f.descriptors }
func (f *fakeTools) HasTool(name string) bool    { _, ok := f.calls[name]; return ok }
func (f *fakeTools) CallTool(_ context.Context, name string, args map[string]any) (any, error) {
	return f.calls[name](args)
}

type fakeResources struct{}

func (fakeResources) Sources(context.Context) (any, error) { return map[string]any{"sources": []string{}}, nil }
func (fakeResources) Tables(context.Context) (any, error)  { return map[string]any{"tables": []string{"users"}}, nil }

func newTestEngine() *Engine {
	tools := &fakeTools{
		descriptors: []ToolDescriptor{{Name: "echo", Description: "echoes", InputSchema: map[string]any{}}},
		calls: map[string]func(args map[string]any) (any, error){
			"echo": func(args map[string]any) (any, error) { return args, nil },
			"boom": func(args map[string]any) (any, error) { panic("kaboom") },
		},
	}
	tools.descriptors = append(tools.descriptors, ToolDescriptor{Name: "boom"})
	return New(tools, fakeResources{}, ServerInfo{Name: "test-server", Version: "0.0.0"}, nil, nil)
}

func TestInitialize(t *testing.T) {
	e := newTestEngine()
	raw := []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	resp := e.HandleRaw(context.Background(), raw)
	var decoded Response
	if err := jsonutil.Unmarshal(resp, &decoded); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if decoded.Error != nil {
		t.Fatalf("unexpected error: %+v", decoded.Error)
	}
	result, ok := decoded.Result.(map[string]any)
	if !ok {
		t.Fatalf("result not a map: %T", decoded.Result)
	}
	if result["protocolVersion"] != protocolVersion {
		t.Errorf("protocolVersion = %v, want %v", result["protocolVersion"], protocolVersion)
	}
}

func TestNotificationProducesNoResponse(t *testing.T) {
	e := newTestEngine()
	raw := []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if resp := e.HandleRaw(context.Background(), raw); resp != nil {
		t.Errorf("expected nil response for notification, got %s", resp)
	}
}

func TestParseErrorHasNullID(t *testing.T) {
	e := newTestEngine()
	resp := e.HandleRaw(context.Background(), []byte(`{not json`))
	var decoded Response
	if err := jsonutil.Unmarshal(resp, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != nil {
		t.Errorf("expected null id, got %v", decoded.ID)
	}
	if decoded.Error == nil || decoded.Error.Code != ParseError {
		t.Errorf("expected ParseError, got %+v", decoded.Error)
	}
}

func TestUnknownMethodYieldsMethodNotFound(t *testing.T) {
	e := newTestEngine()
	resp := e.HandleRaw(context.Background(), []byte(`{"jsonrpc":"2.0","id":2,"method":"nonexistent"}`))
	var decoded Response
	_ = jsonutil.Unmarshal(resp, &decoded)
	if decoded.Error == nil || decoded.Error.Code != MethodNotFound {
		t.Errorf("expected MethodNotFound, got %+v", decoded.Error)
	}
}

func TestToolShorthandDispatch(t *testing.T) {
	e := newTestEngine()
	resp := e.HandleRaw(context.Background(), []byte(`{"jsonrpc":"2.0","id":3,"method":"echo","params":{"x":1}}`))
	var decoded Response
	_ = jsonutil.Unmarshal(resp, &decoded)
	if decoded.Error != nil {
		t.Fatalf("unexpected error: %+v", decoded.Error)
	}
}

func TestHandlerPanicBecomesInternalError(t *testing.T) {
	e := newTestEngine()
	resp := e.HandleRaw(context.Background(), []byte(`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"boom","arguments":{}}}`))
	var decoded Response
	_ = jsonutil.Unmarshal(resp, &decoded)
	if decoded.Error == nil || decoded.Error.Code != InternalError {
		t.Fatalf("expected InternalError, got %+v", decoded.Error)
	}
	if !strings.Contains(decoded.Error.Message, "kaboom") {
		t.Errorf("expected panic message in error, got %q", decoded.Error.Message)
	}
}

func TestResourcesReadTables(t *testing.T) {
	e := newTestEngine()
	resp := e.HandleRaw(context.Background(), []byte(`{"jsonrpc":"2.0","id":5,"method":"resources/read","params":{"uri":"tables://all"}}`))
	var decoded Response
	_ = jsonutil.Unmarshal(resp, &decoded)
	if decoded.Error != nil {
		t.Fatalf("unexpected error: %+v", decoded.Error)
	}
}

func TestPromptsGetQueryHelp(t *testing.T) {
	e := newTestEngine()
	resp := e.HandleRaw(context.Background(), []byte(`{"jsonrpc":"2.0","id":6,"method":"prompts/get","params":{"name":"query_help"}}`))
	var decoded Response
	_ = jsonutil.Unmarshal(resp, &decoded)
	if decoded.Error != nil {
		t.Fatalf("unexpected error: %+v", decoded.Error)
	}
}
