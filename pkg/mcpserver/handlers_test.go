package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/forkhestra/forkhestra/internal/task"
	"github.com/forkhestra/forkhestra/internal/taskcfg"
)

func newTestHandlers(t *testing.T) *handlers {
	t.Helper()
	root := t.TempDir()
	if _, err := task.Init(root, taskcfg.Config{Prefix: "TASK"}, false); err != nil {
		t.Fatalf("task.Init: %v", err)
	}
	return &handlers{root: root}
}

func TestHandleCreateRequiresTitle(t *testing.T) {
	h := newTestHandlers(t)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}

	result, err := h.handleCreate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for missing title")
	}
}

func TestHandleCreateAndGet(t *testing.T) {
	h := newTestHandlers(t)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"title": "wire the thing up"}

	result, err := h.handleCreate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %v", result.Content)
	}

	var created task.Task
	if err := json.Unmarshal([]byte(textOf(result)), &created); err != nil {
		t.Fatalf("unmarshal created task: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected created task to have an ID")
	}

	getReq := mcp.CallToolRequest{}
	getReq.Params.Arguments = map[string]any{"id": created.ID}
	getResult, err := h.handleGet(context.Background(), getReq)
	if err != nil {
		t.Fatal(err)
	}
	if getResult.IsError {
		t.Fatalf("unexpected error fetching created task: %v", getResult.Content)
	}
}

func TestHandleGetUnknownIDErrors(t *testing.T) {
	h := newTestHandlers(t)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"id": "TASK-999"}

	result, err := h.handleGet(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for unknown id")
	}
}

func TestHandleUpdateStatusRequiresBothArgs(t *testing.T) {
	h := newTestHandlers(t)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"id": "TASK-1"}

	result, err := h.handleUpdateStatus(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error when status argument is missing")
	}
}

func TestHandleCheckACRoundTrip(t *testing.T) {
	h := newTestHandlers(t)
	s, err := h.open()
	if err != nil {
		t.Fatal(err)
	}
	created, err := s.Create(task.CreateInput{Title: "ship it", AcceptanceCriteria: []string{"tests pass"}})
	if err != nil {
		t.Fatal(err)
	}

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"id": created.ID, "index": float64(1)}
	result, err := h.handleCheckAC(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %v", result.Content)
	}
}

func textOf(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}
