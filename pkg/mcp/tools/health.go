package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// HealthChecker reports whether the database answers.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

type healthResult struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database,omitempty"`
}

// RegisterHealthTool adds a health check tool to the MCP server.
// The tool returns the server status, version and, when db is set,
// database reachability.
func RegisterHealthTool(s *server.MCPServer, version string, db HealthChecker) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Returns server health status and version"),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := healthResult{Status: "ok", Version: version}
		if db != nil {
			result.Database = "ok"
			if err := db.Healthy(ctx); err != nil {
				result.Status = "degraded"
				result.Database = "unreachable"
			}
		}
		return jsonResult(result)
	})
}
