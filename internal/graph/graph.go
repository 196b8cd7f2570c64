package graph

import (
	"fmt"
	"strings"

	"github.com/archlens/archlens/internal/detector"
)

// Group is a category-based partition of detected services. Every service
// belongs to exactly one group and groups are never empty.
type Group struct {
	Category   string   `json:"category"`
	Title      string   `json:"title"`
	ServiceIDs []string `json:"service_ids"`
}

// Edge is a directed connection between two services. Both endpoints
// always reference existing service ids and self-loops are never emitted.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// Result is the grouped service graph. Services carry the port
// identifiers assigned during the build; the builder never computes
// pixel coordinates — layout belongs to the renderer.
type Result struct {
	Services    []detector.Service
	Groups      []Group
	Edges       []Edge
	Ambiguities []detector.Ambiguity
}

// Build partitions services into category groups, assigns port ids, and
// derives the connection graph. Edges extracted from explicit
// infrastructure references are authoritative; the static category
// adjacency supplies defaults only where no explicit reference connects a
// category pair. References naming resources absent from the detected set
// are dropped and recorded as ambiguities.
func Build(services []detector.Service, refs []detector.Reference) *Result {
	res := &Result{Services: make([]detector.Service, len(services))}
	copy(res.Services, services)

	for i := range res.Services {
		id := res.Services[i].ID
		res.Services[i].Inputs = []string{id + "_in"}
		res.Services[i].Outputs = []string{id + "_out"}
	}

	res.Groups = buildGroups(res.Services)

	explicit, ambiguities := explicitEdges(res.Services, refs)
	res.Ambiguities = ambiguities
	res.Edges = append(res.Edges, explicit...)
	res.Edges = append(res.Edges, defaultEdges(res.Services, explicit)...)

	return res
}

// buildGroups emits one group per category present, in the fixed category
// order, preserving the services' deterministic ordering within each.
func buildGroups(services []detector.Service) []Group {
	byCategory := make(map[detector.Category][]string)
	for _, svc := range services {
		byCategory[svc.Category] = append(byCategory[svc.Category], svc.ID)
	}

	var groups []Group
	for _, cat := range detector.CategoryOrder {
		ids := byCategory[cat]
		if len(ids) == 0 {
			continue
		}
		groups = append(groups, Group{
			Category:   string(cat),
			Title:      string(cat),
			ServiceIDs: ids,
		})
	}
	return groups
}

// explicitEdges resolves reference seeds against resource names. A value
// matching another service's resource name becomes an authoritative edge;
// values matching nothing are silently dropped (an ambiguity is recorded
// only when the value looks like a resource address).
func explicitEdges(services []detector.Service, refs []detector.Reference) ([]Edge, []detector.Ambiguity) {
	byResourceName := make(map[string]string) // resource name -> service id
	ids := make(map[string]bool)
	for _, svc := range services {
		ids[svc.ID] = true
		if svc.ResourceName != "" {
			byResourceName[svc.ResourceName] = svc.ID
		}
	}

	var edges []Edge
	var ambiguities []detector.Ambiguity
	seen := make(map[string]bool)

	for _, ref := range refs {
		if !ids[ref.SourceID] {
			continue
		}
		target, ok := resolveReference(byResourceName, ref.Value)
		if !ok {
			if looksLikeResourceAddress(ref.Value) {
				ambiguities = append(ambiguities, detector.Ambiguity{
					File:   ref.File,
					Reason: fmt.Sprintf("reference to unknown resource %q", ref.Value),
				})
			}
			continue
		}
		if target == ref.SourceID {
			continue // no self-loops
		}
		key := ref.SourceID + "->" + target
		if seen[key] {
			continue
		}
		seen[key] = true
		edges = append(edges, Edge{From: ref.SourceID, To: target, Label: "references"})
	}

	return edges, ambiguities
}

// resolveReference matches a config value to a service: directly by
// resource name, or by the name segment of a type.name address.
func resolveReference(byResourceName map[string]string, value string) (string, bool) {
	if id, ok := byResourceName[value]; ok {
		return id, true
	}
	if looksLikeResourceAddress(value) {
		parts := strings.Split(value, ".")
		if id, ok := byResourceName[parts[len(parts)-1]]; ok {
			return id, true
		}
	}
	return "", false
}

// looksLikeResourceAddress reports whether a config value resembles a
// Terraform resource address rather than an arbitrary string.
func looksLikeResourceAddress(v string) bool {
	n := 0
	for _, r := range v {
		if r == '.' {
			n++
		} else if r == ' ' || r == '/' || r == ':' {
			return false
		}
	}
	return n == 1 || n == 2
}
