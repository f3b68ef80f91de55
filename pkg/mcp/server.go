// Package mcp exposes unit-price parsing and item matching as MCP tools.
package mcp

import (
	"net/http"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/middleware"
)

// Server owns the tool registry and its streamable HTTP transport.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer builds a server that advertises tools and recovers from
// panicking tool handlers.
func NewServer(name, version string, logger *zap.Logger) *Server {
	return &Server{
		mcp: server.NewMCPServer(name, version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
		logger: logger.Named("mcp"),
	}
}

// MCP exposes the underlying server to the tools package.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// RegisterTool adds a single tool outside the tools package.
func (s *Server) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
	s.logger.Debug("Registered MCP tool", zap.String("tool", tool.Name))
}

// ToolNames lists every tool known to the server, sorted.
func (s *Server) ToolNames() []string {
	tools := s.mcp.ListTools()
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewStreamableHTTPServer returns a stateless transport. The caller's mux
// decides the mount path.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.mcp, server.WithStateLess(true))
}

// Handler is the transport wrapped with tool-call logging, ready for /mcp.
func (s *Server) Handler() http.Handler {
	s.logger.Info("MCP endpoint ready", zap.Strings("tools", s.ToolNames()))
	return middleware.MCPRequestLogger(s.logger)(s.NewStreamableHTTPServer())
}
