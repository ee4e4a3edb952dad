// Package mcpserver exposes Task Store operations as MCP tools, so an
// agent participating in a chain can read and mutate tasks without
// shelling out to the forge-tasks binary.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with forge-tasks tools registered
// against the store rooted at root.
func NewServer(version, root string) *server.MCPServer {
	h := &handlers{root: root}

	s := server.NewMCPServer(
		"forge-tasks",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("forge-tasks/list",
			mcp.WithDescription("List tasks, optionally filtered by status/priority/assignee/label/ready"),
			mcp.WithString("status", mcp.Description("To Do | In Progress | Done | Blocked")),
			mcp.WithString("priority", mcp.Description("high | medium | low")),
			mcp.WithString("assignee", mcp.Description("assignee name")),
			mcp.WithString("label", mcp.Description("single label to match")),
			mcp.WithBoolean("ready", mcp.Description("only tasks with no unsatisfied dependency")),
		),
		h.handleList,
	)

	s.AddTool(
		mcp.NewTool("forge-tasks/get",
			mcp.WithDescription("Fetch a single task by ID"),
			mcp.WithString("id", mcp.Required(), mcp.Description("task ID, e.g. TASK-12")),
		),
		h.handleGet,
	)

	s.AddTool(
		mcp.NewTool("forge-tasks/create",
			mcp.WithDescription("Create a new task"),
			mcp.WithString("title", mcp.Required()),
			mcp.WithString("description", mcp.Description("free-form description")),
			mcp.WithString("priority", mcp.Description("high | medium | low")),
			mcp.WithString("assignee", mcp.Description("assignee name")),
		),
		h.handleCreate,
	)

	s.AddTool(
		mcp.NewTool("forge-tasks/update_status",
			mcp.WithDescription("Change a task's status"),
			mcp.WithString("id", mcp.Required(), mcp.Description("task ID")),
			mcp.WithString("status", mcp.Required(), mcp.Description("To Do | In Progress | Done | Blocked")),
		),
		h.handleUpdateStatus,
	)

	s.AddTool(
		mcp.NewTool("forge-tasks/check_ac",
			mcp.WithDescription("Mark an acceptance criterion complete"),
			mcp.WithString("id", mcp.Required(), mcp.Description("task ID")),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based acceptance criterion index")),
		),
		h.handleCheckAC,
	)

	s.AddTool(
		mcp.NewTool("forge-tasks/search",
			mcp.WithDescription("Case-insensitive substring search over title and body sections"),
			mcp.WithString("query", mcp.Required()),
		),
		h.handleSearch,
	)

	return s
}
