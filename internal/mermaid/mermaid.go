package mermaid

import (
	"fmt"
	"strings"

	"github.com/archlens/archlens/internal/detector"
	"github.com/archlens/archlens/internal/graph"
	"github.com/archlens/archlens/internal/workflow"
)

// Export serializes the workflow steps and service graph into mermaid
// flowchart syntax. The same input always yields byte-identical output:
// steps render as ordered comments, groups as subgraphs, edges as
// directed arrows with escaped labels.
func Export(steps []workflow.Step, g *graph.Result) string {
	var b strings.Builder
	b.WriteString("flowchart TD\n")

	for _, step := range steps {
		fmt.Fprintf(&b, "%%%% %d. %s: %s\n", step.Index, step.Title, step.Description)
	}

	ids := assignNodeIDs(g.Services)
	names := make(map[string]string, len(g.Services))
	for _, svc := range g.Services {
		names[svc.ID] = svc.Name
	}

	for _, grp := range g.Groups {
		fmt.Fprintf(&b, "    subgraph %s[\"%s\"]\n", sanitizeID("grp_"+grp.Category), escapeLabel(grp.Title))
		for _, sid := range grp.ServiceIDs {
			fmt.Fprintf(&b, "        %s[\"%s\"]\n", ids[sid], escapeLabel(names[sid]))
		}
		b.WriteString("    end\n")
	}

	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", ids[e.From], escapeLabel(e.Label), ids[e.To])
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", ids[e.From], ids[e.To])
		}
	}

	return b.String()
}

// assignNodeIDs maps service ids to sanitized mermaid node ids,
// guaranteeing uniqueness by numeric suffix on collision.
func assignNodeIDs(services []detector.Service) map[string]string {
	ids := make(map[string]string, len(services))
	taken := make(map[string]bool, len(services))

	for _, svc := range services {
		id := sanitizeID(svc.ID)
		if taken[id] {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s_%d", id, n)
				if !taken[candidate] {
					id = candidate
					break
				}
			}
		}
		taken[id] = true
		ids[svc.ID] = id
	}
	return ids
}

// sanitizeID replaces every non-alphanumeric rune with an underscore and
// guards against ids that start with a digit.
func sanitizeID(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "node"
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "n" + out
	}
	return out
}

// escapeLabel escapes characters with special meaning in mermaid labels.
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "(", "#lpar;")
	s = strings.ReplaceAll(s, ")", "#rpar;")
	s = strings.ReplaceAll(s, "[", "#lsqb;")
	s = strings.ReplaceAll(s, "]", "#rsqb;")
	s = strings.ReplaceAll(s, "{", "#lbrace;")
	s = strings.ReplaceAll(s, "}", "#rbrace;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	s = strings.ReplaceAll(s, "|", "#124;")
	return s
}
