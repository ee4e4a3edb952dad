package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/forkhestra/forkhestra/internal/task"
)

// handlers binds every MCP tool to the store rooted at root, opened
// fresh on each call so concurrent edits from other processes are
// always seen.
type handlers struct {
	root string
}

func (h *handlers) open() (*task.Store, error) {
	return task.Open(h.root)
}

func (h *handlers) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	s, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	filter := task.Filter{
		Status:   task.Status(stringArg(args, "status")),
		Priority: task.Priority(stringArg(args, "priority")),
		Assignee: stringArg(args, "assignee"),
		Label:    stringArg(args, "label"),
		Ready:    boolArg(args, "ready"),
	}
	tasks, _ := s.List(filter)
	return jsonResult(tasks)
}

func (h *handlers) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id := stringArg(args, "id")
	if id == "" {
		return errorResult("id argument is required"), nil
	}
	s, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	t, err := s.Get(id)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(t)
}

func (h *handlers) handleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	title := stringArg(args, "title")
	if title == "" {
		return errorResult("title argument is required"), nil
	}
	s, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	t, err := s.Create(task.CreateInput{
		Title:       title,
		Description: stringArg(args, "description"),
		Priority:    task.Priority(stringArg(args, "priority")),
		Assignee:    stringArg(args, "assignee"),
	})
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(t)
}

func (h *handlers) handleUpdateStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id := stringArg(args, "id")
	status := task.Status(stringArg(args, "status"))
	if id == "" || status == "" {
		return errorResult("id and status arguments are required"), nil
	}
	s, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	t, err := s.Update(id, task.Patch{Status: &status})
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(t)
}

func (h *handlers) handleCheckAC(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id := stringArg(args, "id")
	index := intArg(args, "index")
	if id == "" || index == 0 {
		return errorResult("id and index arguments are required"), nil
	}
	s, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	t, err := s.CheckAC(id, index)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(t)
}

func (h *handlers) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query := stringArg(args, "query")
	if query == "" {
		return errorResult("query argument is required"), nil
	}
	s, err := h.open()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	tasks, _ := s.Search(query, task.Filter{})
	return jsonResult(tasks)
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return textResult(string(data)), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(msg)},
		IsError: true,
	}
}
