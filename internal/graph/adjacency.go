package graph

import "github.com/archlens/archlens/internal/detector"

// adjacency is the static category-to-category default-edge table, kept
// separate from explicit-reference extraction so the two edge sources
// stay independently testable. At most one default edge is emitted per
// ordered category pair.
var adjacency = []struct {
	From  detector.Category
	To    detector.Category
	Label string
}{
	{detector.CategoryNetworking, detector.CategoryCompute, "routes to"},
	{detector.CategoryFramework, detector.CategoryCompute, "runs on"},
	{detector.CategoryCompute, detector.CategoryDatabase, "reads/writes"},
	{detector.CategoryCompute, detector.CategoryStorage, "stores objects in"},
	{detector.CategoryCompute, detector.CategoryOther, "integrates with"},
}

// defaultEdges supplies heuristic edges for category pairs that no
// explicit reference already connects. The representative node of a
// category is its first service in the deterministic service order.
func defaultEdges(services []detector.Service, explicit []Edge) []Edge {
	representative := make(map[detector.Category]string)
	category := make(map[string]detector.Category)
	for _, svc := range services {
		category[svc.ID] = svc.Category
		if _, ok := representative[svc.Category]; !ok {
			representative[svc.Category] = svc.ID
		}
	}

	// Category pairs already connected by explicit references.
	connected := make(map[[2]detector.Category]bool)
	for _, e := range explicit {
		connected[[2]detector.Category{category[e.From], category[e.To]}] = true
	}

	var edges []Edge
	for _, adj := range adjacency {
		from, okFrom := representative[adj.From]
		to, okTo := representative[adj.To]
		if !okFrom || !okTo || from == to {
			continue
		}
		if connected[[2]detector.Category{adj.From, adj.To}] {
			continue
		}
		edges = append(edges, Edge{From: from, To: to, Label: adj.Label})
	}
	return edges
}
