package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/archlens/archlens/internal/detector"
	"github.com/archlens/archlens/internal/scanner"
)

// Step is one ordered narrative entry describing a phase of the analysis.
// Indexes are 1-based and contiguous.
type Step struct {
	Index       int      `json:"index"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ServiceIDs  []string `json:"related_service_ids"`
}

// phase groups service categories into a narrative pipeline phase.
type phase struct {
	title      string
	categories []detector.Category
}

// phases is the fixed precedence: ingestion and summary bracket the
// category phases. Framework services ride with compute; they are the
// application tier.
var phases = []phase{
	{"Compute services", []detector.Category{detector.CategoryCompute, detector.CategoryFramework}},
	{"Storage and databases", []detector.Category{detector.CategoryStorage, detector.CategoryDatabase}},
	{"Networking", []detector.Category{detector.CategoryNetworking}},
	{"Security", []detector.Category{detector.CategorySecurity}},
}

// Synthesize converts scan statistics and detected services into the
// ordered step list. Output is deterministic: within a phase, services
// order by descending evidence then canonical key. The description
// strings here are the templated fallback; an enrichment collaborator may
// replace them but is never required.
func Synthesize(scan *scanner.Result, services []detector.Service) []Step {
	var steps []Step

	steps = append(steps, Step{
		Title: "Project ingestion",
		Description: fmt.Sprintf("Scanned %d files across %d languages.",
			scan.FileCount, scan.Languages()),
	})

	for _, p := range phases {
		members := servicesInCategories(services, p.categories)
		if len(members) == 0 {
			continue
		}
		names := make([]string, 0, len(members))
		ids := make([]string, 0, len(members))
		for _, svc := range members {
			names = append(names, svc.Name)
			ids = append(ids, svc.ID)
		}
		steps = append(steps, Step{
			Title:       p.title,
			Description: fmt.Sprintf("Detected %s.", strings.Join(names, ", ")),
			ServiceIDs:  ids,
		})
	}

	steps = append(steps, summaryStep(scan, services))

	for i := range steps {
		steps[i].Index = i + 1
	}
	return steps
}

// summaryStep is always present, even for an empty project.
func summaryStep(scan *scanner.Result, services []detector.Service) Step {
	if len(services) == 0 {
		return Step{
			Title:       "Summary",
			Description: "No services detected. The project appears to be self-contained.",
		}
	}

	ids := make([]string, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ID)
	}
	return Step{
		Title: "Summary",
		Description: fmt.Sprintf("%d services detected across %d files; overall complexity is %s.",
			len(services), scan.FileCount, Rate(scan.FileCount, scan.Languages(), len(services))),
		ServiceIDs: ids,
	}
}

// servicesInCategories filters and orders services for one phase:
// descending evidence count, then canonical key.
func servicesInCategories(services []detector.Service, categories []detector.Category) []detector.Service {
	var out []detector.Service
	for _, svc := range services {
		for _, cat := range categories {
			if svc.Category == cat {
				out = append(out, svc)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EvidenceCount != out[j].EvidenceCount {
			return out[i].EvidenceCount > out[j].EvidenceCount
		}
		return out[i].CanonicalKey < out[j].CanonicalKey
	})
	return out
}
