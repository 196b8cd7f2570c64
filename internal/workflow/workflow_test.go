package workflow

import (
	"strings"
	"testing"

	"github.com/archlens/archlens/internal/detector"
	"github.com/archlens/archlens/internal/scanner"
)

func sampleScan() *scanner.Result {
	return &scanner.Result{
		Histogram: map[string]int{"Python": 2, "Terraform": 1},
		FileCount: 3,
	}
}

func sampleServices() []detector.Service {
	return []detector.Service{
		{ID: "aws_s3", Name: "AWS S3", CanonicalKey: "aws_s3", Category: detector.CategoryStorage, EvidenceCount: 5},
		{ID: "flask", Name: "Flask", CanonicalKey: "flask", Category: detector.CategoryFramework, EvidenceCount: 4},
		{ID: "aws_lambda", Name: "AWS Lambda", CanonicalKey: "aws_lambda", Category: detector.CategoryCompute, EvidenceCount: 3},
		{ID: "aws_iam", Name: "AWS IAM", CanonicalKey: "aws_iam", Category: detector.CategorySecurity, EvidenceCount: 1},
	}
}

func TestSynthesize_StepOrderAndIndexes(t *testing.T) {
	steps := Synthesize(sampleScan(), sampleServices())

	wantTitles := []string{
		"Project ingestion",
		"Compute services",
		"Storage and databases",
		"Security",
		"Summary",
	}
	if len(steps) != len(wantTitles) {
		t.Fatalf("got %d steps, want %d: %v", len(steps), len(wantTitles), steps)
	}
	for i, title := range wantTitles {
		if steps[i].Title != title {
			t.Errorf("step[%d] = %q, want %q", i, steps[i].Title, title)
		}
		if steps[i].Index != i+1 {
			t.Errorf("step %q index = %d, want %d", steps[i].Title, steps[i].Index, i+1)
		}
	}
}

// Framework services narrate with compute, ordered by evidence.
func TestSynthesize_ComputePhaseMembers(t *testing.T) {
	steps := Synthesize(sampleScan(), sampleServices())

	var compute Step
	for _, s := range steps {
		if s.Title == "Compute services" {
			compute = s
		}
	}
	if compute.Description != "Detected Flask, AWS Lambda." {
		t.Errorf("compute description = %q", compute.Description)
	}
	if len(compute.ServiceIDs) != 2 || compute.ServiceIDs[0] != "flask" || compute.ServiceIDs[1] != "aws_lambda" {
		t.Errorf("compute service ids = %v", compute.ServiceIDs)
	}
}

func TestSynthesize_IngestionStep(t *testing.T) {
	steps := Synthesize(sampleScan(), nil)
	if steps[0].Description != "Scanned 3 files across 2 languages." {
		t.Errorf("ingestion description = %q", steps[0].Description)
	}
}

// An empty project still yields ingestion and summary steps.
func TestSynthesize_NoServices(t *testing.T) {
	steps := Synthesize(&scanner.Result{Histogram: map[string]int{}}, nil)

	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2: %v", len(steps), steps)
	}
	last := steps[len(steps)-1]
	if last.Title != "Summary" {
		t.Errorf("last step = %q, want Summary", last.Title)
	}
	if !strings.Contains(last.Description, "self-contained") {
		t.Errorf("summary description = %q", last.Description)
	}
	if len(last.ServiceIDs) != 0 {
		t.Errorf("empty project summary has service ids: %v", last.ServiceIDs)
	}
}

func TestSynthesize_SummaryListsAllServices(t *testing.T) {
	services := sampleServices()
	steps := Synthesize(sampleScan(), services)

	last := steps[len(steps)-1]
	if len(last.ServiceIDs) != len(services) {
		t.Errorf("summary ids = %v, want all %d services", last.ServiceIDs, len(services))
	}
}

func TestRate_Bands(t *testing.T) {
	cases := []struct {
		files, langs, services int
		want                   Complexity
	}{
		{0, 0, 0, ComplexityMinimal},
		{5, 1, 1, ComplexityMinimal},
		{5, 1, 3, ComplexityMinimal},  // score 1
		{25, 3, 1, ComplexityLow},     // 1+1
		{5, 5, 3, ComplexityLow},      // 2+1
		{25, 3, 6, ComplexityMedium},  // 1+1+2
		{51, 1, 3, ComplexityMedium},  // 3+0+1
		{51, 5, 11, ComplexityHigh},   // 3+2+3
		{100, 6, 20, ComplexityHigh},
	}
	for _, tc := range cases {
		if got := Rate(tc.files, tc.langs, tc.services); got != tc.want {
			t.Errorf("Rate(%d, %d, %d) = %s, want %s", tc.files, tc.langs, tc.services, got, tc.want)
		}
	}
}
