// Package analyzer orchestrates the analysis pipeline: scan, detect,
// synthesize, group, estimate, export. Data flows strictly left to right
// through the stages; each consumes only the previous stage's output.
// Every run owns independent working state, so concurrent runs never
// interleave data.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/archlens/archlens/internal/cost"
	"github.com/archlens/archlens/internal/detector"
	"github.com/archlens/archlens/internal/enrich"
	"github.com/archlens/archlens/internal/graph"
	"github.com/archlens/archlens/internal/mermaid"
	"github.com/archlens/archlens/internal/scanner"
	"github.com/archlens/archlens/internal/workflow"
)

// DefaultEnrichTimeout bounds the optional enrichment call.
const DefaultEnrichTimeout = 15 * time.Second

// Options configures a single analysis run.
type Options struct {
	ProjectName string
	Scan        scanner.Config
	// Enricher optionally rewrites the panel description. A nil provider,
	// a timeout, or an error all fall back to templated text.
	Enricher      enrich.Provider
	EnrichTimeout time.Duration
	// Progress, if set, receives stage names as the pipeline advances.
	Progress func(stage string)
}

// Stages in pipeline order, for progress reporting.
var Stages = []string{"scan", "detect", "synthesize", "graph", "cost", "export"}

// Analyze runs the full pipeline over the project tree at root. Only
// input errors are fatal; all other conditions degrade into skip markers,
// recorded ambiguities, or a truncation flag, and the returned Result is
// always structurally complete.
func Analyze(ctx context.Context, root string, opts Options) (*Result, error) {
	if root == "" {
		return nil, &InputError{Path: root, Reason: "empty root path"}
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, &InputError{Path: root, Reason: "root not accessible", Err: err}
	}
	if !info.IsDir() {
		return nil, &InputError{Path: root, Reason: "root is not a directory"}
	}

	report := opts.Progress
	if report == nil {
		report = func(string) {}
	}

	report("scan")
	scan, err := scanner.Scan(root, opts.Scan)
	if err != nil {
		return nil, &InputError{Path: root, Reason: "scan failed", Err: err}
	}

	report("detect")
	detection := detector.Detect(scan)

	report("synthesize")
	steps := workflow.Synthesize(scan, detection.Services)
	complexity := workflow.Rate(scan.FileCount, scan.Languages(), len(detection.Services))

	report("graph")
	g := graph.Build(detection.Services, detection.References)

	report("cost")
	estimate := cost.Project(g.Services)

	report("export")
	res := &Result{
		ProjectName: opts.ProjectName,
		Canvas: Canvas{
			Groups:      g.Groups,
			Services:    g.Services,
			Connections: g.Edges,
		},
		Summary:       buildSummary(scan, g, complexity),
		Panel:         buildPanel(opts.ProjectName, scan, g.Services, complexity),
		Steps:         steps,
		CostEstimates: estimate,
		Mermaid:       mermaid.Export(steps, g),
		Ambiguities:   append(detection.Ambiguities, g.Ambiguities...),
	}

	enrichPanel(ctx, res, opts)

	return res, nil
}

func buildSummary(scan *scanner.Result, g *graph.Result, complexity workflow.Complexity) Summary {
	s := Summary{
		TotalServices: len(g.Services),
		TotalFiles:    scan.FileCount,
		Complexity:    complexity,
		ServiceTypes:  []string{},
		Groups:        make(map[string]int),
		Languages:     scan.Histogram,
		Truncated:     scan.Truncated,
	}
	for _, svc := range g.Services {
		s.ServiceTypes = append(s.ServiceTypes, svc.Name)
	}
	for _, grp := range g.Groups {
		s.Groups[grp.Category] = len(grp.ServiceIDs)
	}
	return s
}

// buildPanel produces the deterministic templated panel. Enrichment may
// replace the description afterwards but never the title.
func buildPanel(projectName string, scan *scanner.Result, services []detector.Service, complexity workflow.Complexity) Panel {
	if len(services) == 0 {
		return Panel{
			Title: fmt.Sprintf("%s Architecture", projectName),
			Description: fmt.Sprintf(
				"No cloud services detected in %d files. This appears to be a self-contained project.",
				scan.FileCount),
		}
	}
	return Panel{
		Title: fmt.Sprintf("%s Architecture", projectName),
		Description: fmt.Sprintf(
			"%d services detected across %d files in %d languages; complexity is %s.",
			len(services), scan.FileCount, scan.Languages(), complexity),
	}
}

// enrichPanel calls the optional collaborator under a bounded timeout.
// Failure of any kind keeps the templated description; it never aborts
// the run.
func enrichPanel(ctx context.Context, res *Result, opts Options) {
	if opts.Enricher == nil {
		return
	}

	timeout := opts.EnrichTimeout
	if timeout <= 0 {
		timeout = DefaultEnrichTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	desc, err := opts.Enricher.Describe(ctx, enrich.Summary{
		ProjectName:  res.ProjectName,
		Languages:    res.Summary.Languages,
		ServiceNames: res.Summary.ServiceTypes,
		Complexity:   string(res.Summary.Complexity),
	})
	if err != nil {
		log.Printf("analyzer: enrichment failed, keeping templated description: %v", err)
		return
	}
	if desc != "" {
		res.Panel.Description = desc
	}
}
