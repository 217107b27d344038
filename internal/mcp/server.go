// ABOUTME: MCP server for cellar integration with AI agents.
// ABOUTME: Provides tools and resources for wine collection management.

package mcp

import (
	"context"

	"github.com/harper/cellar/internal/cellar"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	server  *mcp.Server
	manager *cellar.Manager
}

func NewServer(manager *cellar.Manager) *Server {
	s := &Server{manager: manager}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "cellar",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

func (s *Server) Serve(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
