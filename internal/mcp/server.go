// Package mcp exposes the analyzer as Model Context Protocol tools over
// stdio, so coding assistants can analyze projects directly.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/archlens/archlens/internal/enrich"
	"github.com/archlens/archlens/internal/scanner"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server exposing architecture analysis tools.
type Server struct {
	scan     scanner.Config
	enricher enrich.Provider
	mcp      *server.MCPServer
}

// NewServer creates an MCP server. The enricher may be nil.
func NewServer(scan scanner.Config, enricher enrich.Provider) *Server {
	s := &Server{
		scan:     scan,
		enricher: enricher,
	}

	s.mcp = server.NewMCPServer(
		"archlens",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(analyzeProjectTool, s.handleAnalyzeProject)
	s.mcp.AddTool(estimateCostsTool, s.handleEstimateCosts)
	s.mcp.AddTool(getMermaidTool, s.handleGetMermaid)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
