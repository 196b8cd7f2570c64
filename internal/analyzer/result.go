package analyzer

import (
	"github.com/archlens/archlens/internal/cost"
	"github.com/archlens/archlens/internal/detector"
	"github.com/archlens/archlens/internal/graph"
	"github.com/archlens/archlens/internal/workflow"
)

// Canvas is the renderable service graph: grouped nodes and directed
// connections. It carries no pixel coordinates; layout belongs to the
// consumer.
type Canvas struct {
	Groups      []graph.Group      `json:"groups"`
	Services    []detector.Service `json:"services"`
	Connections []graph.Edge       `json:"connections"`
}

// Summary condenses the scan and detection statistics.
type Summary struct {
	TotalServices int                 `json:"total_services"`
	TotalFiles    int                 `json:"total_files"`
	Complexity    workflow.Complexity `json:"complexity"`
	ServiceTypes  []string            `json:"service_types"`
	Groups        map[string]int      `json:"groups"`
	Languages     map[string]int      `json:"languages"`
	Truncated     bool                `json:"truncated"`
}

// Panel describes the default detail panel shown beside the canvas.
type Panel struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Result is the complete, immutable outcome of one analysis run. It is
// fully populated on every non-fatal path and JSON-serializable as the
// public output schema.
type Result struct {
	ProjectName   string               `json:"project_name"`
	Canvas        Canvas               `json:"canvas"`
	Summary       Summary              `json:"summary"`
	Panel         Panel                `json:"panel"`
	Steps         []workflow.Step      `json:"steps"`
	CostEstimates cost.Estimate        `json:"cost_estimates"`
	Mermaid       string               `json:"mermaid"`
	Ambiguities   []detector.Ambiguity `json:"ambiguities,omitempty"`
}
