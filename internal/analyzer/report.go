package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

// RenderMarkdown formats a result as a human-readable report. The output
// is deterministic for a given result, so it is safe to diff between runs.
func RenderMarkdown(res *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", res.Panel.Title)
	fmt.Fprintf(&b, "%s\n\n", res.Panel.Description)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Services:** %d\n", res.Summary.TotalServices)
	fmt.Fprintf(&b, "- **Files:** %d\n", res.Summary.TotalFiles)
	fmt.Fprintf(&b, "- **Complexity:** %s\n", res.Summary.Complexity)
	if res.Summary.Truncated {
		b.WriteString("- **Note:** file cap reached; content analysis covered a subset of the tree\n")
	}
	b.WriteString("\n")

	writeLanguages(&b, res.Summary.Languages)
	writeServices(&b, res)
	writeWorkflow(&b, res)
	writeCosts(&b, res)
	writeDiagram(&b, res)
	writeAmbiguities(&b, res)

	return b.String()
}

func writeLanguages(b *strings.Builder, histogram map[string]int) {
	if len(histogram) == 0 {
		return
	}

	langs := make([]string, 0, len(histogram))
	for lang := range histogram {
		langs = append(langs, lang)
	}
	// Largest language first; ties break alphabetically.
	sort.Slice(langs, func(i, j int) bool {
		if histogram[langs[i]] != histogram[langs[j]] {
			return histogram[langs[i]] > histogram[langs[j]]
		}
		return langs[i] < langs[j]
	})

	b.WriteString("## Languages\n\n")
	b.WriteString("| Language | Files |\n|----------|-------|\n")
	for _, lang := range langs {
		fmt.Fprintf(b, "| %s | %d |\n", lang, histogram[lang])
	}
	b.WriteString("\n")
}

func writeServices(b *strings.Builder, res *Result) {
	if len(res.Canvas.Services) == 0 {
		return
	}

	b.WriteString("## Detected Services\n\n")
	for _, grp := range res.Canvas.Groups {
		fmt.Fprintf(b, "### %s\n\n", grp.Title)
		for _, id := range grp.ServiceIDs {
			for _, svc := range res.Canvas.Services {
				if svc.ID != id {
					continue
				}
				fmt.Fprintf(b, "- **%s** (evidence: %d)", svc.Name, svc.EvidenceCount)
				if svc.ResourceName != "" {
					fmt.Fprintf(b, " — resource `%s`", svc.ResourceName)
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
}

func writeWorkflow(b *strings.Builder, res *Result) {
	if len(res.Steps) == 0 {
		return
	}

	b.WriteString("## Workflow\n\n")
	for _, step := range res.Steps {
		fmt.Fprintf(b, "%d. **%s** — %s\n", step.Index, step.Title, step.Description)
	}
	b.WriteString("\n")
}

func writeCosts(b *strings.Builder, res *Result) {
	est := res.CostEstimates
	if len(est.ServiceEstimates) == 0 {
		return
	}

	b.WriteString("## Cost Estimates\n\n")
	fmt.Fprintf(b, "Estimated monthly cost: **%s** (%s/year)\n\n",
		est.TotalCosts.MonthlyRange, est.TotalCosts.YearlyRange)

	b.WriteString("| Service | Monthly | Assumptions |\n|---------|---------|-------------|\n")
	for _, se := range est.ServiceEstimates {
		fmt.Fprintf(b, "| %s | %s | %s |\n", se.Service, se.MonthlyRange, se.Assumptions)
	}
	b.WriteString("\n")

	if len(est.Recommendations) > 0 {
		b.WriteString("### Recommendations\n\n")
		for _, rec := range est.Recommendations {
			fmt.Fprintf(b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}
}

func writeDiagram(b *strings.Builder, res *Result) {
	if res.Mermaid == "" {
		return
	}
	b.WriteString("## Architecture Diagram\n\n")
	b.WriteString("```mermaid\n")
	b.WriteString(res.Mermaid)
	if !strings.HasSuffix(res.Mermaid, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")
}

func writeAmbiguities(b *strings.Builder, res *Result) {
	if len(res.Ambiguities) == 0 {
		return
	}
	b.WriteString("## Notes\n\n")
	for _, amb := range res.Ambiguities {
		if amb.File != "" {
			fmt.Fprintf(b, "- `%s`: %s\n", amb.File, amb.Reason)
		} else {
			fmt.Fprintf(b, "- %s\n", amb.Reason)
		}
	}
	b.WriteString("\n")
}
