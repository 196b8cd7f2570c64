package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/archlens/archlens/internal/analyzer"
)

// handleAnalyzeProject runs the full pipeline and returns the result as JSON.
func (s *Server) handleAnalyzeProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	projectName := request.GetString("project_name", "")
	if projectName == "" {
		projectName = filepath.Base(path)
	}

	res, err := s.analyze(ctx, path, projectName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	payload, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// handleEstimateCosts runs the pipeline and returns only the cost section.
func (s *Server) handleEstimateCosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	res, err := s.analyze(ctx, path, filepath.Base(path))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	if len(res.CostEstimates.ServiceEstimates) == 0 {
		return mcp.NewToolResultText("No billable services detected in this project."), nil
	}

	payload, err := json.MarshalIndent(res.CostEstimates, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding estimates: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// handleGetMermaid runs the pipeline and returns the diagram text.
func (s *Server) handleGetMermaid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	res, err := s.analyze(ctx, path, filepath.Base(path))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	return mcp.NewToolResultText(res.Mermaid), nil
}

func (s *Server) analyze(ctx context.Context, path, projectName string) (*analyzer.Result, error) {
	return analyzer.Analyze(ctx, path, analyzer.Options{
		ProjectName: projectName,
		Scan:        s.scan,
		Enricher:    s.enricher,
	})
}
