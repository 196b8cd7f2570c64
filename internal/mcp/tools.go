package mcp

import "github.com/mark3labs/mcp-go/mcp"

// analyzeProjectTool defines the analyze_project MCP tool.
var analyzeProjectTool = mcp.NewTool("analyze_project",
	mcp.WithDescription("Analyze a project directory and return its architecture: detected services, workflow steps, connection graph, and cost estimates."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Absolute path to the project root directory"),
	),
	mcp.WithString("project_name",
		mcp.Description("Display name for the project (defaults to the directory name)"),
	),
)

// estimateCostsTool defines the estimate_costs MCP tool.
var estimateCostsTool = mcp.NewTool("estimate_costs",
	mcp.WithDescription("Estimate monthly and yearly infrastructure costs for the services detected in a project directory."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Absolute path to the project root directory"),
	),
)

// getMermaidTool defines the get_mermaid MCP tool.
var getMermaidTool = mcp.NewTool("get_mermaid",
	mcp.WithDescription("Generate a Mermaid flowchart of a project's detected architecture."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Absolute path to the project root directory"),
	),
)
