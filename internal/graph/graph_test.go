package graph

import (
	"testing"

	"github.com/archlens/archlens/internal/detector"
)

func sampleServices() []detector.Service {
	return []detector.Service{
		{ID: "aws_s3", Name: "AWS S3", CanonicalKey: "aws_s3", Category: detector.CategoryStorage, EvidenceCount: 5, ResourceName: "data"},
		{ID: "flask", Name: "Flask", CanonicalKey: "flask", Category: detector.CategoryFramework, EvidenceCount: 4},
		{ID: "aws_dynamodb", Name: "AWS DynamoDB", CanonicalKey: "aws_dynamodb", Category: detector.CategoryDatabase, EvidenceCount: 3, ResourceName: "events"},
		{ID: "aws_lambda", Name: "AWS Lambda", CanonicalKey: "aws_lambda", Category: detector.CategoryCompute, EvidenceCount: 3, ResourceName: "worker"},
	}
}

// Every service lands in exactly one group.
func TestBuild_GroupPartition(t *testing.T) {
	g := Build(sampleServices(), nil)

	seen := make(map[string]int)
	for _, grp := range g.Groups {
		if len(grp.ServiceIDs) == 0 {
			t.Errorf("group %s is empty", grp.Category)
		}
		for _, id := range grp.ServiceIDs {
			seen[id]++
		}
	}
	for _, svc := range g.Services {
		if seen[svc.ID] != 1 {
			t.Errorf("service %s appears in %d groups, want 1", svc.ID, seen[svc.ID])
		}
	}

	// Groups follow the fixed category order.
	wantOrder := []string{"Compute", "Storage", "Database", "Framework"}
	if len(g.Groups) != len(wantOrder) {
		t.Fatalf("got %d groups, want %d", len(g.Groups), len(wantOrder))
	}
	for i, cat := range wantOrder {
		if g.Groups[i].Category != cat {
			t.Errorf("group[%d] = %s, want %s", i, g.Groups[i].Category, cat)
		}
	}
}

func TestBuild_PortAssignment(t *testing.T) {
	g := Build(sampleServices(), nil)
	for _, svc := range g.Services {
		if len(svc.Inputs) != 1 || svc.Inputs[0] != svc.ID+"_in" {
			t.Errorf("service %s inputs = %v", svc.ID, svc.Inputs)
		}
		if len(svc.Outputs) != 1 || svc.Outputs[0] != svc.ID+"_out" {
			t.Errorf("service %s outputs = %v", svc.ID, svc.Outputs)
		}
	}
}

// Edge endpoints always name existing services and never form self-loops.
func TestBuild_EdgeValidity(t *testing.T) {
	refs := []detector.Reference{
		{SourceID: "aws_lambda", Value: "data", File: "main.tf"},
		{SourceID: "aws_lambda", Value: "worker", File: "main.tf"},   // self-loop
		{SourceID: "aws_lambda", Value: "data", File: "main.tf"},     // duplicate
		{SourceID: "ghost", Value: "data", File: "main.tf"},          // unknown source
		{SourceID: "aws_lambda", Value: "unrelated", File: "app.py"}, // no target
	}
	g := Build(sampleServices(), refs)

	ids := make(map[string]bool)
	for _, svc := range g.Services {
		ids[svc.ID] = true
	}
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		if !ids[e.From] || !ids[e.To] {
			t.Errorf("edge %s -> %s references unknown service", e.From, e.To)
		}
		if e.From == e.To {
			t.Errorf("self-loop on %s", e.From)
		}
		key := e.From + "->" + e.To
		if seen[key] {
			t.Errorf("duplicate edge %s", key)
		}
		seen[key] = true
	}
}

func TestBuild_ExplicitEdgeSuppressesDefault(t *testing.T) {
	refs := []detector.Reference{
		{SourceID: "aws_lambda", Value: "data", File: "main.tf"},
	}
	g := Build(sampleServices(), refs)

	var computeToStorage []Edge
	for _, e := range g.Edges {
		if e.From == "aws_lambda" && e.To == "aws_s3" {
			computeToStorage = append(computeToStorage, e)
		}
	}
	if len(computeToStorage) != 1 {
		t.Fatalf("got %d Compute->Storage edges, want 1 (explicit only): %v", len(computeToStorage), computeToStorage)
	}
	if computeToStorage[0].Label != "references" {
		t.Errorf("label = %q, want references", computeToStorage[0].Label)
	}
}

func TestBuild_DefaultEdges(t *testing.T) {
	g := Build(sampleServices(), nil)

	want := map[string]string{
		"flask->aws_lambda":        "runs on",
		"aws_lambda->aws_dynamodb": "reads/writes",
		"aws_lambda->aws_s3":       "stores objects in",
	}
	got := make(map[string]string)
	for _, e := range g.Edges {
		got[e.From+"->"+e.To] = e.Label
	}
	for key, label := range want {
		if got[key] != label {
			t.Errorf("edge %s label = %q, want %q", key, got[key], label)
		}
	}
	if len(g.Edges) != len(want) {
		t.Errorf("got %d edges, want %d: %v", len(g.Edges), len(want), g.Edges)
	}
}

// A reference that looks like a resource address but matches nothing is
// recorded, not silently lost.
func TestBuild_DanglingAddressReference(t *testing.T) {
	refs := []detector.Reference{
		{SourceID: "aws_lambda", Value: "aws_sqs_queue.jobs", File: "main.tf"},
	}
	g := Build(sampleServices(), refs)

	if len(g.Ambiguities) != 1 {
		t.Fatalf("got %d ambiguities, want 1: %v", len(g.Ambiguities), g.Ambiguities)
	}
	amb := g.Ambiguities[0]
	if amb.File != "main.tf" {
		t.Errorf("ambiguity file = %q, want main.tf", amb.File)
	}
}

func TestBuild_AddressReferenceResolvesByName(t *testing.T) {
	refs := []detector.Reference{
		{SourceID: "aws_lambda", Value: "aws_s3_bucket.data", File: "main.tf"},
	}
	g := Build(sampleServices(), refs)

	found := false
	for _, e := range g.Edges {
		if e.From == "aws_lambda" && e.To == "aws_s3" && e.Label == "references" {
			found = true
		}
	}
	if !found {
		t.Errorf("type.name address did not resolve: %v", g.Edges)
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	services := sampleServices()
	Build(services, nil)
	for _, svc := range services {
		if svc.Inputs != nil || svc.Outputs != nil {
			t.Errorf("Build mutated input service %s", svc.ID)
		}
	}
}

func TestLooksLikeResourceAddress(t *testing.T) {
	cases := map[string]bool{
		"aws_s3_bucket.data":      true,
		"module.storage.bucket":   true,
		"plain_name":              false,
		"has space.x":             false,
		"http://example.com/path": false,
		"a.b.c.d":                 false,
	}
	for in, want := range cases {
		if got := looksLikeResourceAddress(in); got != want {
			t.Errorf("looksLikeResourceAddress(%q) = %v, want %v", in, got, want)
		}
	}
}
