package detector

// Category classifies a detected service for grouping and cost breakdown.
type Category string

const (
	CategoryCompute    Category = "Compute"
	CategoryStorage    Category = "Storage"
	CategoryDatabase   Category = "Database"
	CategoryNetworking Category = "Networking"
	CategorySecurity   Category = "Security"
	CategoryFramework  Category = "Framework"
	CategoryOther      Category = "Other"
)

// CategoryOrder is the fixed display and iteration order for categories.
var CategoryOrder = []Category{
	CategoryCompute,
	CategoryStorage,
	CategoryDatabase,
	CategoryNetworking,
	CategorySecurity,
	CategoryFramework,
	CategoryOther,
}

// Service is one detected cloud service, database, or framework.
// Services sharing a canonical key across files are merged: evidence is
// summed and config keys are unioned with last-writer-wins semantics.
type Service struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	CanonicalKey  string         `json:"canonical_key"`
	Category      Category       `json:"category"`
	EvidenceCount int            `json:"evidence_count"`
	ResourceName  string         `json:"resource_name,omitempty"`
	Config        map[string]any `json:"config,omitempty"`
	Inputs        []string       `json:"inputs"`
	Outputs       []string       `json:"outputs"`
}

// Reference is a candidate edge seed: a string value found in one
// service's infrastructure config that may name another resource.
type Reference struct {
	SourceID string `json:"source_id"`
	Value    string `json:"value"`
	File     string `json:"file"`
}

// Ambiguity records a recoverable detection problem, such as a malformed
// infrastructure block or a reference to an unknown resource. Ambiguities
// are diagnostics; they never abort an analysis.
type Ambiguity struct {
	File   string `json:"file,omitempty"`
	Reason string `json:"reason"`
}

// Result is the full output of a detection pass.
type Result struct {
	Services    []Service
	References  []Reference
	Ambiguities []Ambiguity
}
